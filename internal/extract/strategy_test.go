package extract

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundtruth/insight-engine/internal/config"
	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/pkg/anthropic"
)

// fakeClient returns a canned response or error.
type fakeClient struct {
	resp  *anthropic.MessageResponse
	err   error
	calls int
}

func (f *fakeClient) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func textResponse(s string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{Content: []anthropic.ContentBlock{{Type: "text", Text: s}}}
}

func llmConfig() config.AnthropicConfig {
	return config.AnthropicConfig{
		Model:          "claude-sonnet-4-5-20250929",
		MaxTokens:      1000,
		Temperature:    0.3,
		CharBudget:     4000,
		RequestsPerSec: 100,
	}
}

func TestExtract_RegexOnly(t *testing.T) {
	e := NewExtractor(nil, testRegions)
	ex := e.Extract(context.Background(), "Clicks: 300 in the Midwest")

	assert.Equal(t, model.MethodRegex, ex.Method)
	assert.Equal(t, []float64{300}, ex.Metrics["clicks"])
	assert.Equal(t, []string{"Midwest"}, ex.Entities["regions"])
}

func TestExtract_LLMFirstSuccess(t *testing.T) {
	client := &fakeClient{resp: textResponse(`{"metrics":{"impressions":5000},"entities":{"campaigns":["Summer"]},"key_findings":["good"],"sentiment":"positive","data_quality":"high"}`)}
	llm := NewLLMExtractor(client, llmConfig())
	e := NewExtractor(llm, testRegions)

	ex := e.Extract(context.Background(), "whatever")
	assert.Equal(t, model.MethodLLM, ex.Method)
	assert.Equal(t, []float64{5000}, ex.Metrics["impressions"])
	assert.Equal(t, "positive", ex.Sentiment)
	assert.Equal(t, 1, client.calls)
}

func TestExtract_LLMFailureFallsBack(t *testing.T) {
	client := &fakeClient{err: eris.New("boom")}
	llm := NewLLMExtractor(client, llmConfig())
	e := NewExtractor(llm, testRegions)

	ex := e.Extract(context.Background(), "Clicks: 300")
	assert.Equal(t, model.MethodRegexFallback, ex.Method)
	assert.Equal(t, []float64{300}, ex.Metrics["clicks"])
}

func TestExtract_LLMNonJSONFallsBack(t *testing.T) {
	client := &fakeClient{resp: textResponse("sorry, I can't do that")}
	llm := NewLLMExtractor(client, llmConfig())
	e := NewExtractor(llm, testRegions)

	ex := e.Extract(context.Background(), "Impressions: 12,000")
	assert.Equal(t, model.MethodRegexFallback, ex.Method)
	assert.Equal(t, []float64{12000}, ex.Metrics["impressions"])
}

func TestNewLLMExtractor_NilClient(t *testing.T) {
	require.Nil(t, NewLLMExtractor(nil, llmConfig()))
}
