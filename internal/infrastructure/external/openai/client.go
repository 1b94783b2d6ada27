package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Config holds the connection settings for the chat completion API
type Config struct {
	APIKey string
	// BaseURL points at an OpenAI-compatible endpoint; empty means api.openai.com
	BaseURL string
	Model   string
}

// Client implements port.Narrator and port.ResumeClassifier on the chat
// completion API
type Client struct {
	client  *openai.Client
	model   string
	prompts *PromptConfig
	logger  *zap.Logger
}

// NewClient creates a new OpenAI client
func NewClient(cfg Config, prompts *PromptConfig, logger *zap.Logger) (*Client, error) {
	if prompts == nil {
		var err error
		if prompts, err = DefaultPrompts(); err != nil {
			return nil, err
		}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		prompts: prompts,
		logger:  logger,
	}, nil
}

// Narrate renders the prompt for req.Purpose and returns the model's text
func (c *Client) Narrate(ctx context.Context, req port.NarrationRequest) (string, error) {
	prompt, err := c.promptFor(req.Purpose)
	if err != nil {
		return "", err
	}

	content, err := c.complete(ctx, prompt, req.Data, false)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", port.ErrNarrationUnavailable)
	}

	c.logger.Debug("Narration generated",
		zap.String("purpose", string(req.Purpose)),
		zap.Int("length", len(text)))
	return text, nil
}

// ClassifyResume asks the model for the applicant's employment picture
func (c *Client) ClassifyResume(ctx context.Context, text string) (*port.ResumeProfile, error) {
	content, err := c.complete(ctx, c.prompts.ResumeClassification,
		map[string]interface{}{"resume_text": text}, true)
	if err != nil {
		return nil, err
	}

	var raw struct {
		EmploymentStatus string  `json:"employment_status"`
		JobTitle         *string `json:"current_job_title"`
		Employer         *string `json:"current_employer"`
		JobPeriod        *string `json:"current_job_period"`
		Reasoning        string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		// Fallback: try to extract JSON from surrounding text
		jsonStr := extractJSON(content)
		if jsonStr == "" {
			c.logger.Error("Failed to parse resume classification", zap.Error(err), zap.String("content", content))
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
			c.logger.Error("Failed to parse resume classification", zap.Error(err), zap.String("content", content))
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	profile := &port.ResumeProfile{
		EmploymentStatus: raw.EmploymentStatus,
		JobTitle:         deref(raw.JobTitle),
		Employer:         deref(raw.Employer),
		JobPeriod:        deref(raw.JobPeriod),
		Reasoning:        raw.Reasoning,
	}

	c.logger.Info("Resume classified",
		zap.String("employment_status", profile.EmploymentStatus),
		zap.String("job_title", profile.JobTitle))
	return profile, nil
}

func (c *Client) complete(ctx context.Context, prompt Prompt, data interface{}, jsonMode bool) (string, error) {
	user, err := renderTemplate(prompt.UserTemplate, data)
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Warn("OpenAI API call failed", zap.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) promptFor(purpose port.NarrationPurpose) (Prompt, error) {
	switch purpose {
	case port.PurposeEligibilityExplanation:
		return c.prompts.EligibilityExplanation, nil
	case port.PurposeRecommendationAdvice:
		return c.prompts.RecommendationAdvice, nil
	case port.PurposeValidationInsight:
		return c.prompts.ValidationInsight, nil
	default:
		return Prompt{}, fmt.Errorf("unknown narration purpose: %s", purpose)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Verify interface compliance
var (
	_ port.Narrator         = (*Client)(nil)
	_ port.ResumeClassifier = (*Client)(nil)
)
