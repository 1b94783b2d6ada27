package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedRequest struct {
	Model          string `json:"model"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newFakeServer(t *testing.T, reply string, status int, seen *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini"}, nil, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNarrate_RendersPrompt(t *testing.T) {
	var seen capturedRequest
	srv := newFakeServer(t, "  You qualify for support.  ", http.StatusOK, &seen)
	c := newTestClient(t, srv)

	text, err := c.Narrate(context.Background(), port.NarrationRequest{
		Purpose: port.PurposeEligibilityExplanation,
		Data: map[string]interface{}{
			"applicant_name":    "Fatima",
			"monthly_income":    4500.0,
			"family_size":       5,
			"employment_status": "unemployed",
			"credit_score":      610,
			"score":             82.5,
			"decision":          "APPROVED",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "You qualify for support.", text)

	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Contains(t, seen.Messages[1].Content, "Applicant: Fatima")
	assert.Contains(t, seen.Messages[1].Content, "Monthly income (AED): 4500.00")
	assert.Contains(t, seen.Messages[1].Content, "Eligibility score: 82.5 out of 100")
	assert.Nil(t, seen.ResponseFormat)
}

func TestNarrate_ValidationInsightListsFields(t *testing.T) {
	var seen capturedRequest
	srv := newFakeServer(t, "Looks consistent.", http.StatusOK, &seen)
	c := newTestClient(t, srv)

	_, err := c.Narrate(context.Background(), port.NarrationRequest{
		Purpose: port.PurposeValidationInsight,
		Data:    map[string]interface{}{"credit_score": 700, "monthly_income": 3000.0},
	})
	require.NoError(t, err)
	assert.Contains(t, seen.Messages[1].Content, "- credit_score: 700")
	assert.Contains(t, seen.Messages[1].Content, "- monthly_income: 3000")
}

func TestNarrate_Errors(t *testing.T) {
	srv := newFakeServer(t, "   ", http.StatusOK, nil)
	c := newTestClient(t, srv)

	_, err := c.Narrate(context.Background(), port.NarrationRequest{Purpose: port.PurposeValidationInsight})
	assert.ErrorIs(t, err, port.ErrNarrationUnavailable)

	_, err = c.Narrate(context.Background(), port.NarrationRequest{Purpose: "poetry"})
	assert.ErrorContains(t, err, "unknown narration purpose")

	failing := newTestClient(t, newFakeServer(t, "", http.StatusTooManyRequests, nil))
	_, err = failing.Narrate(context.Background(), port.NarrationRequest{Purpose: port.PurposeValidationInsight})
	assert.ErrorContains(t, err, "OpenAI API call failed")
}

func TestClassifyResume(t *testing.T) {
	var seen capturedRequest
	reply := `{"employment_status":"employed","current_job_title":"Nurse","current_employer":"Cleveland Clinic","current_job_period":"2021 - present","reasoning":"Current role listed"}`
	srv := newFakeServer(t, reply, http.StatusOK, &seen)
	c := newTestClient(t, srv)

	profile, err := c.ClassifyResume(context.Background(), "Registered Nurse, Cleveland Clinic Abu Dhabi")
	require.NoError(t, err)
	assert.Equal(t, "employed", profile.EmploymentStatus)
	assert.Equal(t, "Nurse", profile.JobTitle)
	assert.Equal(t, "2021 - present", profile.JobPeriod)

	require.NotNil(t, seen.ResponseFormat)
	assert.Equal(t, "json_object", seen.ResponseFormat.Type)
	assert.Contains(t, seen.Messages[1].Content, "Registered Nurse, Cleveland Clinic Abu Dhabi")
}

func TestClassifyResume_WrappedJSONAndNulls(t *testing.T) {
	reply := "Here you go:\n```json\n{\"employment_status\":\"unemployed\",\"current_job_title\":null,\"reasoning\":\"No role since 2023 {gap}\"}\n```"
	c := newTestClient(t, newFakeServer(t, reply, http.StatusOK, nil))

	profile, err := c.ClassifyResume(context.Background(), "resume")
	require.NoError(t, err)
	assert.Equal(t, "unemployed", profile.EmploymentStatus)
	assert.Empty(t, profile.JobTitle)
	assert.Equal(t, "No role since 2023 {gap}", profile.Reasoning)
}

func TestClassifyResume_Garbage(t *testing.T) {
	c := newTestClient(t, newFakeServer(t, "I cannot help with that.", http.StatusOK, nil))

	_, err := c.ClassifyResume(context.Background(), "resume")
	assert.ErrorContains(t, err, "failed to parse response")
}

func TestLoadPrompts_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recommendation_advice:\n  temperature: 0.9\n  max_tokens: 50\n  system: be brief\n  user_template: \"{{.decision}}\"\n"), 0o644))

	prompts, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, "be brief", prompts.RecommendationAdvice.System)
	assert.Equal(t, 50, prompts.RecommendationAdvice.MaxTokens)
	assert.NotEmpty(t, prompts.EligibilityExplanation.UserTemplate)

	_, err = LoadPrompts(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":{"b":"}"}}`, extractJSON(`noise {"a":{"b":"}"}} trailing`))
	assert.Equal(t, "", extractJSON("no json here"))
	assert.Equal(t, "", extractJSON(`{"open": true`))
}
