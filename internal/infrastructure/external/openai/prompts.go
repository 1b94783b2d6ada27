package openai

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Prompt is one system/user prompt pair with its sampling parameters
type Prompt struct {
	Temperature  float32 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	System       string  `yaml:"system"`
	UserTemplate string  `yaml:"user_template"`
}

// PromptConfig holds every prompt used by the OpenAI client
type PromptConfig struct {
	EligibilityExplanation Prompt `yaml:"eligibility_explanation"`
	RecommendationAdvice   Prompt `yaml:"recommendation_advice"`
	ValidationInsight      Prompt `yaml:"validation_insight"`
	ResumeClassification   Prompt `yaml:"resume_classification"`
}

// DefaultPrompts returns the built-in prompt catalog
func DefaultPrompts() (*PromptConfig, error) {
	var prompts PromptConfig
	if err := yaml.Unmarshal(defaultPrompts, &prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default prompts: %w", err)
	}
	return &prompts, nil
}

// LoadPrompts loads prompt overrides from a YAML file on top of the defaults.
// An empty path returns the defaults.
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	prompts, err := DefaultPrompts()
	if err != nil {
		return nil, err
	}
	if promptsPath == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	if err := yaml.Unmarshal(data, prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}

	return prompts, nil
}

// renderTemplate renders a template with provided data
func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("prompt").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
