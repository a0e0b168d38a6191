package entity

import "strings"

// Scenario classifies what the user is asking for so the orchestrator can
// pick the matching system prompt and tool set before calling the model.
type Scenario string

const (
	ScenarioTranslate Scenario = "translate"
	ScenarioModify    Scenario = "modify"
	ScenarioQuery     Scenario = "query"
	ScenarioRecognize Scenario = "recognize"
	ScenarioGeneral   Scenario = "general"
)

var scenarioKeywords = []struct {
	scenario Scenario
	words    []string
}{
	{ScenarioTranslate, []string{"translate", "translation", "english", "chinese", "japanese", "localize"}},
	{ScenarioModify, []string{"modify", "change", "replace", "rename", "update", "edit", "rewrite"}},
	{ScenarioRecognize, []string{"recognize", "frame", "title block", "detect", "identify"}},
	{ScenarioQuery, []string{"query", "find", "list", "count", "how many", "search", "show"}},
}

// DetectScenario classifies a user request with keyword matching. The
// first matching scenario wins, in declaration order; translate and modify
// outrank query so "find and replace" requests are treated as edits.
func DetectScenario(text string) Scenario {
	lower := strings.ToLower(text)
	for _, entry := range scenarioKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.scenario
			}
		}
	}
	return ScenarioGeneral
}
