package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/autoxliff"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Suggester using OpenAI's chat API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Suggest asks the model for one target per source text.
func (p *OpenAIProvider) Suggest(ctx context.Context, req SuggestRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: p.buildUserMessage(req)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &autoxliff.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &autoxliff.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return p.parseResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

func (p *OpenAIProvider) buildSystemPrompt(req SuggestRequest) string {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "en"
	}

	sourceName := autoxliff.LanguageName(sourceLang)
	targetName := autoxliff.LanguageName(req.TargetLang)

	contextText := "The texts are user interface labels of a web application."
	if req.Context != "" {
		contextText = fmt.Sprintf("The texts are user interface labels for: %s.", req.Context)
	}

	prompt := fmt.Sprintf(`# Role
You are a professional software localizer translating %s interface labels into %s.

# Context
%s

# Task
Translate every label into idiomatic %s, keeping each one about as short as the original.

# Rules
- **Placeholders**: Keep placeholders such as {0}, {name} or {count, number} exactly as written.
- **Markup**: Do NOT translate HTML tags, attribute names, URLs or email addresses.
- **Keys**: An "id" next to a text is a hint about where the label is used. Never translate or return it.
- **Formatting**: Preserve leading and trailing whitespace. Use the punctuation of the target language.`,
		sourceName, targetName, contextText, targetName)

	if autoxliff.IsRTL(req.TargetLang) {
		prompt += fmt.Sprintf("\n- **Direction**: %s is written right to left; do not add direction marks.", targetName)
	}

	prompt += `

# Format
Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated label 1", "translated label 2"] }
- Do NOT wrap in Markdown code blocks.`

	return prompt
}

// buildUserMessage sends a plain array, or objects with ids when any unit
// has an explicit (non-slug) id.
func (p *OpenAIProvider) buildUserMessage(req SuggestRequest) string {
	hasIDs := false
	for _, id := range req.IDs {
		if id != "" && !strings.HasPrefix(id, autoxliff.SlugPrefix) {
			hasIDs = true
			break
		}
	}

	if !hasIDs {
		data, _ := json.Marshal(req.Texts)
		return string(data)
	}

	type item struct {
		ID   string `json:"id,omitempty"`
		Text string `json:"text"`
	}

	items := make([]item, len(req.Texts))
	for i, text := range req.Texts {
		items[i].Text = text
		if i < len(req.IDs) && !strings.HasPrefix(req.IDs[i], autoxliff.SlugPrefix) {
			items[i].ID = req.IDs[i]
		}
	}

	data, _ := json.Marshal(map[string][]item{"items": items})
	return string(data)
}

func (p *OpenAIProvider) parseResponse(content string, expectedCount int) ([]string, error) {
	var objResult map[string]any
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if translations, ok := objResult["translations"]; ok {
			if arr, ok := translations.([]any); ok {
				return toStringSlice(arr, expectedCount)
			}
		}

		// some models pick their own key
		for _, v := range objResult {
			if arr, ok := v.([]any); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	var arrResult []any
	if err := json.Unmarshal([]byte(content), &arrResult); err == nil {
		return toStringSlice(arrResult, expectedCount)
	}

	return nil, &autoxliff.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func toStringSlice(arr []any, expectedCount int) ([]string, error) {
	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprintf("%v", v)
		}
	}

	if len(result) != expectedCount {
		return nil, &autoxliff.CountMismatchError{
			Expected: expectedCount,
			Got:      len(result),
		}
	}

	return result, nil
}

func isRetryableError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"rate limit", "timeout", "connection refused", "temporary"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

var _ Suggester = (*OpenAIProvider)(nil)
