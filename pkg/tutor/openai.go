package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/errorsx"
	"github.com/wordwhiz/wordwhiz/pkg/game"
	"github.com/wordwhiz/wordwhiz/pkg/resilience"
)

const (
	wordListSystemPrompt = "You are an expert in child education and pronunciation teaching. " +
		"Generate age-appropriate words for pronunciation practice. Return only valid JSON."
	feedbackSystemPrompt = "You are a warm, encouraging pronunciation tutor for young children. " +
		"Provide clear, simple feedback using child-friendly language. Keep responses under 30 words. " +
		"Always be positive and motivating."
)

// OpenAI implements both generators against the chat completions API.
// Breaker, when set, blocks calls after repeated rate limit responses so a
// throttled key falls back to the canned scripts instead of hammering the API.
type OpenAI struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
	Breaker *resilience.CircuitBreaker
}

func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-5"
	}
	return &OpenAI{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://api.openai.com/v1",
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (o *OpenAI) GenerateWordList(ctx context.Context, age int, interests []string) ([]game.WordItem, error) {
	prompt := fmt.Sprintf("Generate 15 pronunciation practice words for a %d-year-old child interested in %s. "+
		"Start with easy 3-4 letter words, then progress to medium difficulty. "+
		`Return as JSON array: [{"word": string, "difficulty": "easy"|"medium", "phonetic": string (IPA notation), "hint": string (simple pronunciation tip)}]`,
		age, strings.Join(interests, ", "))

	body := map[string]any{
		"model": o.Model,
		"messages": []map[string]any{
			{"role": "system", "content": wordListSystemPrompt},
			{"role": "user", "content": prompt},
		},
		"response_format":       map[string]any{"type": "json_object"},
		"max_completion_tokens": 2048,
	}

	content, err := o.complete(ctx, body)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonWordListGenerate)
	}

	words, err := parseWordList(content)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonWordListGenerate)
	}
	return words, nil
}

func (o *OpenAI) GenerateFeedback(ctx context.Context, analysis Analysis, childName string, currentPoints int) (string, error) {
	payload, err := json.Marshal(struct {
		Analysis
		ChildName     string `json:"childName"`
		CurrentPoints int    `json:"currentPoints"`
	}{analysis, childName, currentPoints})
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonFeedbackGenerate)
	}

	body := map[string]any{
		"model": o.Model,
		"messages": []map[string]any{
			{"role": "system", "content": feedbackSystemPrompt},
			{"role": "user", "content": string(payload)},
		},
		"max_completion_tokens": 150,
	}

	content, err := o.complete(ctx, body)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonFeedbackGenerate)
	}

	feedback := strings.TrimSpace(content)
	if feedback == "" {
		return "", errorsx.Wrap(errors.New("empty completion"), errorsx.ReasonFeedbackGenerate)
	}
	return feedback, nil
}

func (o *OpenAI) complete(ctx context.Context, body map[string]any) (string, error) {
	if o.Breaker != nil && !o.Breaker.Allow() {
		return "", errors.New("openai circuit open")
	}
	content, err := o.doComplete(ctx, body)
	if o.Breaker != nil {
		if err != nil {
			o.Breaker.OnError(err)
		} else {
			o.Breaker.OnSuccess()
		}
	}
	return content, err
}

func (o *OpenAI) doComplete(ctx context.Context, body map[string]any) (string, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+"/chat/completions", bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		detail, _ := io.ReadAll(resp.Body)
		return "", resilience.RateLimitError{Provider: "openai", Message: string(detail)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return "", errors.New(string(detail))
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return payload.Choices[0].Message.Content, nil
}

func (o *OpenAI) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return http.DefaultClient
}

// parseWordList accepts either a bare JSON array or an object wrapping the
// array under "words". JSON mode often produces the latter.
func parseWordList(content string) ([]game.WordItem, error) {
	content = strings.TrimSpace(content)

	var words []game.WordItem
	if err := json.Unmarshal([]byte(content), &words); err == nil {
		return validWordList(words)
	}

	var wrapped struct {
		Words []game.WordItem `json:"words"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
		return nil, err
	}
	return validWordList(wrapped.Words)
}

func validWordList(words []game.WordItem) ([]game.WordItem, error) {
	if len(words) == 0 {
		return nil, errors.New("empty word list")
	}
	for _, w := range words {
		if w.Word == "" {
			return nil, errors.New("word list entry missing word")
		}
	}
	return words, nil
}

var (
	_ WordListGenerator = (*OpenAI)(nil)
	_ FeedbackGenerator = (*OpenAI)(nil)
)
