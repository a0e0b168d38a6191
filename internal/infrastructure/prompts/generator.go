package prompts

import (
	"bytes"
	"text/template"
)

type TranslatePromptData struct {
	Terms map[string]string
}

// GenerateTranslatePrompt renders the translation system prompt with the
// active glossary terms woven in. An empty term map yields the base
// prompt unchanged.
func GenerateTranslatePrompt(baseTemplate string, terms map[string]string) (string, error) {
	tmpl, err := template.New("translate").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, TranslatePromptData{Terms: terms}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
