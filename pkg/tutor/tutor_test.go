package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGreetingNamesChildAndInterests(t *testing.T) {
	got := Greeting("Mia", []string{"animals", "space"})
	if !strings.Contains(got, "Mia") {
		t.Fatalf("greeting must address the child: %q", got)
	}
	if !strings.Contains(got, "animals, space") {
		t.Fatalf("greeting must list interests: %q", got)
	}
}

func TestIntroductionsIncludeHint(t *testing.T) {
	words := FallbackWordList()
	first := FirstWordIntroduction(words[0])
	if !strings.Contains(first, "cat") || !strings.Contains(first, words[0].Hint) {
		t.Fatalf("first introduction missing word or hint: %q", first)
	}
	next := NextWordIntroduction(words[1])
	if !strings.Contains(next, "dog") || !strings.Contains(next, "Your turn!") {
		t.Fatalf("next introduction malformed: %q", next)
	}
}

func TestFallbackWordListOrdering(t *testing.T) {
	words := FallbackWordList()
	if len(words) != 10 {
		t.Fatalf("expected 10 fallback words, got %d", len(words))
	}
	if words[0].Difficulty != "easy" || words[len(words)-1].Difficulty != "medium" {
		t.Fatalf("fallback list must go easy to medium")
	}
	for _, w := range words {
		if w.Word == "" || w.Phonetic == "" || w.Hint == "" {
			t.Fatalf("incomplete fallback entry: %+v", w)
		}
	}
}

func TestFallbackFeedbackBranches(t *testing.T) {
	success := FallbackFeedback(Analysis{TargetWord: "cat", Success: true})
	if !strings.Contains(success, "Perfect") {
		t.Fatalf("success feedback: %q", success)
	}
	retry := FallbackFeedback(Analysis{TargetWord: "cat", AttemptNumber: 1, MaxAttempts: 3})
	if !strings.Contains(retry, "Try again") {
		t.Fatalf("retry feedback: %q", retry)
	}
	exhausted := FallbackFeedback(Analysis{TargetWord: "cat", AttemptNumber: 3, MaxAttempts: 3})
	if !strings.Contains(exhausted, "Next word") {
		t.Fatalf("exhausted feedback: %q", exhausted)
	}
}

func TestParseWordListBareArray(t *testing.T) {
	words, err := parseWordList(`[{"word":"cat","difficulty":"easy","phonetic":"kæt","hint":"hard k"}]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(words) != 1 || words[0].Word != "cat" {
		t.Fatalf("unexpected words: %+v", words)
	}
}

func TestParseWordListWrappedObject(t *testing.T) {
	words, err := parseWordList(`{"words":[{"word":"sun","difficulty":"easy","phonetic":"sʌn","hint":"snake s"}]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(words) != 1 || words[0].Word != "sun" {
		t.Fatalf("unexpected words: %+v", words)
	}
}

func TestParseWordListRejectsEmpty(t *testing.T) {
	if _, err := parseWordList(`[]`); err == nil {
		t.Fatalf("expected error on empty list")
	}
	if _, err := parseWordList(`{"words":[]}`); err == nil {
		t.Fatalf("expected error on empty wrapped list")
	}
}

func TestOpenAIGenerateWordList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "gpt-5" {
			t.Errorf("unexpected model %v", req["model"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"content": `{"words":[{"word":"owl","difficulty":"easy","phonetic":"aʊl","hint":"ow then l"}]}`,
				}},
			},
		})
	}))
	defer srv.Close()

	client := NewOpenAI("test-key", "")
	client.BaseURL = srv.URL

	words, err := client.GenerateWordList(context.Background(), 7, []string{"animals"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(words) != 1 || words[0].Word != "owl" {
		t.Fatalf("unexpected words: %+v", words)
	}
}

func TestOpenAIGenerateFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  Great job saying cat!  "}},
			},
		})
	}))
	defer srv.Close()

	client := NewOpenAI("test-key", "")
	client.BaseURL = srv.URL

	got, err := client.GenerateFeedback(context.Background(), Analysis{TargetWord: "cat", Success: true}, "Mia", 10)
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if got != "Great job saying cat!" {
		t.Fatalf("feedback not trimmed: %q", got)
	}
}

func TestCompletionSummary(t *testing.T) {
	got := CompletionSummary("Mia", 80)
	if !strings.Contains(got, "Mia") || !strings.Contains(got, "80 points") {
		t.Fatalf("summary malformed: %q", got)
	}
}
