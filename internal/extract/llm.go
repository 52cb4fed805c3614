package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/groundtruth/insight-engine/internal/config"
	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/pkg/anthropic"
)

const llmSystemPrompt = "You are a data extraction specialist. Extract structured data from unstructured text and return valid JSON only."

const llmPromptTemplate = `Analyze the following unstructured text and extract structured data relevant to %s.

TEXT:
%s

Please extract and return a JSON object with the following structure:
{
    "metrics": {
        "impressions": <number or null>,
        "clicks": <number or null>,
        "conversions": <number or null>,
        "spend": <number or null>,
        "revenue": <number or null>,
        "ctr": <percentage or null>,
        "conversion_rate": <percentage or null>,
        "other_metrics": {<any other numerical metrics found>}
    },
    "entities": {
        "campaigns": [<list of campaign names>],
        "regions": [<list of regions/locations>],
        "products": [<list of products/categories>],
        "time_periods": [<list of date ranges or periods mentioned>]
    },
    "key_findings": [<list of 3-5 key insights from the text>],
    "sentiment": "<positive/negative/neutral>",
    "data_quality": "<high/medium/low based on how much structured info was found>"
}

Return ONLY valid JSON, no other text.`

// LLMExtractor sends document text to the text-understanding service and
// parses the structured reply. Calls are rate limited client-side and carry
// a bounded timeout so a hung service can never stall a run.
type LLMExtractor struct {
	client  anthropic.Client
	cfg     config.AnthropicConfig
	limiter *rate.Limiter
	context string
}

// NewLLMExtractor wires a client with its rate limiter. Returns nil when no
// client is available; the caller then skips the LLM strategy entirely.
func NewLLMExtractor(client anthropic.Client, cfg config.AnthropicConfig) *LLMExtractor {
	if client == nil {
		return nil
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	return &LLMExtractor{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		context: "AdTech performance data",
	}
}

// Extract asks the service for structured data from the given text.
func (l *LLMExtractor) Extract(ctx context.Context, text string) (*model.Extraction, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "extract: llm rate limit")
	}

	if l.cfg.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(l.cfg.TimeoutSecs)*time.Second)
		defer cancel()
	}

	if budget := l.cfg.CharBudget; budget > 0 && len(text) > budget {
		text = text[:budget]
	}

	temp := l.cfg.Temperature
	resp, err := l.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       l.cfg.Model,
		MaxTokens:   int64(l.cfg.MaxTokens),
		System:      []anthropic.SystemBlock{{Text: llmSystemPrompt}},
		Messages:    []anthropic.Message{{Role: "user", Content: fmt.Sprintf(llmPromptTemplate, l.context, text)}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: llm call")
	}

	return parseLLMResponse(resp.Text())
}

type llmPayload struct {
	Metrics     map[string]any `json:"metrics"`
	Entities    map[string]any `json:"entities"`
	KeyFindings []string       `json:"key_findings"`
	Sentiment   string         `json:"sentiment"`
	DataQuality string         `json:"data_quality"`
}

func parseLLMResponse(text string) (*model.Extraction, error) {
	var payload llmPayload
	if err := json.Unmarshal([]byte(cleanJSON(text)), &payload); err != nil {
		return nil, eris.Wrap(err, "extract: parse llm response")
	}

	ex := &model.Extraction{
		Metrics:     make(map[string][]float64),
		Entities:    make(map[string][]string),
		KeyFindings: payload.KeyFindings,
		Sentiment:   payload.Sentiment,
		DataQuality: payload.DataQuality,
		Method:      model.MethodLLM,
	}

	flattenMetrics(payload.Metrics, ex.Metrics)

	for class, raw := range payload.Entities {
		list, ok := raw.([]any)
		if !ok {
			continue
		}
		var values []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		ex.Entities[class] = dedupe(values)
	}

	return ex, nil
}

// flattenMetrics folds numbers, number lists, and the nested other_metrics
// object into a flat name→values map. Nulls and non-numeric values are
// dropped silently.
func flattenMetrics(raw map[string]any, out map[string][]float64) {
	for name, v := range raw {
		switch x := v.(type) {
		case float64:
			out[name] = append(out[name], x)
		case []any:
			for _, item := range x {
				if f, ok := item.(float64); ok {
					out[name] = append(out[name], f)
				}
			}
		case map[string]any:
			flattenMetrics(x, out)
		}
	}
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
