package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/codecritic/codecritic/internal/config"
	"github.com/codecritic/codecritic/pkg/logger"
)

// ReviewItem is one finding in a structured AI review. All four fields are
// always populated; missing upstream values are repaired with defaults.
type ReviewItem struct {
	Category   string `json:"category"`
	Line       string `json:"line"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

const (
	defaultCategory   = "Unknown"
	defaultLine       = "N/A"
	defaultMessage    = "No message provided"
	defaultSuggestion = "No suggestion provided"
)

// llmCaller is the provider transport: one prompt in, raw text out.
type llmCaller interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	Name() string
}

// AIReviewService produces a structured review from a remote LLM.
// Review never fails outward: credential gaps, transport errors, and
// malformed responses all degrade to valid error- or info-shaped items.
type AIReviewService struct {
	cfg    *config.AIConfig
	caller llmCaller
}

func NewAIReviewService(cfg *config.AIConfig) *AIReviewService {
	return &AIReviewService{cfg: cfg, caller: newCaller(cfg)}
}

// Review sends the code and static-analysis output to the configured
// provider and normalizes the response into ReviewItems.
func (s *AIReviewService) Review(ctx context.Context, code, staticResult string) []ReviewItem {
	if s.cfg.APIKey == "" && providerNeedsKey(s.cfg.Provider) {
		return []ReviewItem{{
			Category:   "Error",
			Line:       defaultLine,
			Message:    "AI API key is not configured",
			Suggestion: "Set GEMINI_API_KEY in the environment or ai.api_key in config.yaml",
		}}
	}

	prompt := buildReviewPrompt(code, staticResult)

	text, err := s.generateWithFallback(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Str("provider", s.caller.Name()).Msg("AI review failed on all models")
		return []ReviewItem{{
			Category:   "Error",
			Line:       defaultLine,
			Message:    fmt.Sprintf("AI review failed: %v", err),
			Suggestion: "Please check your API key, model availability, and API quota.",
		}}
	}

	return parseReviewItems(text)
}

// generateWithFallback tries the primary model, then the fallback model
// once. First success wins; the last error propagates when both fail.
func (s *AIReviewService) generateWithFallback(ctx context.Context, prompt string) (string, error) {
	candidates := s.modelCandidates()

	var lastErr error
	for i, model := range candidates {
		logger.Infof("[AI] Attempting model %d/%d: %s (provider: %s)", i+1, len(candidates), model, s.caller.Name())

		text, err := s.caller.Generate(ctx, model, prompt)
		if err == nil {
			preview := text
			if len(preview) > 500 {
				preview = preview[:500]
			}
			logger.Infof("[AI] Success with model %s, response preview: %s", model, preview)
			return strings.TrimSpace(text), nil
		}

		lastErr = err
		logger.Warnf("[AI] Model %s failed: %v", model, err)
	}

	return "", lastErr
}

func (s *AIReviewService) modelCandidates() []string {
	candidates := []string{s.cfg.Model}
	if s.cfg.FallbackModel != "" && s.cfg.FallbackModel != s.cfg.Model {
		candidates = append(candidates, s.cfg.FallbackModel)
	}
	return candidates
}

func buildReviewPrompt(code, staticResult string) string {
	return fmt.Sprintf(`You are an expert code reviewer. Respond ONLY with a valid JSON array of review items.
If no issues, return [].
Each item must follow this schema exactly:
{
  "category": "Bug | Performance | Style | Security | Readability | BestPractice",
  "line": "<Line number or 'N/A'>",
  "message": "Brief description of the issue",
  "suggestion": "Clear, actionable fix suggestion"
}

Static Analysis Results:
%s

Code to Review:
`+"```python\n%s\n```"+`

Provide a detailed code review.`, staticResult, code)
}

// parseReviewItems normalizes raw LLM output into a non-empty item slice.
// Parse-then-repair: a fence is stripped, a bare object becomes a
// single-element array, missing fields get defaults, non-object elements
// are dropped, and an empty result becomes a synthetic Info item.
func parseReviewItems(raw string) []ReviewItem {
	text := stripCodeFence(raw)

	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		logger.Warn().Str("raw", truncate(text, 300)).Msg("AI response is not valid JSON")
		return []ReviewItem{{
			Category:   "Error",
			Line:       defaultLine,
			Message:    "Invalid response format from AI",
			Suggestion: "Raw response: " + truncate(text, 200),
		}}
	}

	elements, ok := parsed.([]interface{})
	if !ok {
		elements = []interface{}{parsed}
	}

	var items []ReviewItem
	for _, el := range elements {
		m, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		items = append(items, ReviewItem{
			Category:   stringField(m, "category", defaultCategory),
			Line:       stringField(m, "line", defaultLine),
			Message:    stringField(m, "message", defaultMessage),
			Suggestion: stringField(m, "suggestion", defaultSuggestion),
		})
	}

	if len(items) == 0 {
		return []ReviewItem{{
			Category:   "Info",
			Line:       defaultLine,
			Message:    "No issues found",
			Suggestion: "Code looks good!",
		}}
	}

	return items
}

// stringField reads m[key] as a string, rendering numbers (models often
// return "line": 42 instead of "42") and falling back to def.
func stringField(m map[string]interface{}, key, def string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return def
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return def
	}
}

// stripCodeFence removes a wrapping triple-backtick fence, optionally
// tagged "json", that models add around their output.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return trimmed
	}
	inner := trimmed[idx+1:]
	if last := strings.LastIndex(inner, "```"); last >= 0 {
		inner = inner[:last]
	}
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, "json") {
		inner = strings.TrimSpace(inner[4:])
	}
	return inner
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
