package prompts

import (
	_ "embed"

	"cad-agent/internal/domain/entity"
)

//go:embed general.txt
var GeneralPrompt string

//go:embed translate.txt
var TranslatePrompt string

//go:embed modify.txt
var ModifyPrompt string

//go:embed query.txt
var QueryPrompt string

//go:embed recognize.txt
var RecognizePrompt string

// ForScenario returns the system prompt template matching a detected
// scenario.
func ForScenario(s entity.Scenario) string {
	switch s {
	case entity.ScenarioTranslate:
		return TranslatePrompt
	case entity.ScenarioModify:
		return ModifyPrompt
	case entity.ScenarioQuery:
		return QueryPrompt
	case entity.ScenarioRecognize:
		return RecognizePrompt
	default:
		return GeneralPrompt
	}
}
