package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mhayashi/salon-shift-api/pkg/models"
)

func testClient(url string) *Client {
	c := NewClient(url, "test-model", func() string { return "test-key" })
	c.delay = 0
	return c
}

func candidateReply(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return string(body)
}

func proposalJSON() string {
	return `{
		"success": true,
		"shifts": {"2024-01-01": {"morning": ["1", "2"], "evening": ["3", "4"]}},
		"summary": "A balanced week.",
		"conflicts": [],
		"optimization_score": 92.5
	}`
}

func TestGenerateShifts(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(candidateReply(proposalJSON())))
	}))
	defer server.Close()

	c := testClient(server.URL)
	proposal, err := c.GenerateShifts(context.Background(), models.SeedStaff(), models.DefaultSettings(), nil,
		models.DateRange{Start: "2024-01-01", End: "2024-01-07"})
	if err != nil {
		t.Fatalf("GenerateShifts failed: %v", err)
	}
	if !proposal.Success {
		t.Error("Expected a successful proposal")
	}
	if len(proposal.Shifts["2024-01-01"].Morning) != 2 {
		t.Errorf("Unexpected shifts: %+v", proposal.Shifts)
	}
	if proposal.OptimizationScore != 92.5 {
		t.Errorf("Expected score 92.5, got %f", proposal.OptimizationScore)
	}
	if !strings.Contains(gotPath, "models/test-model") {
		t.Errorf("Unexpected request path %q", gotPath)
	}
}

func TestGenerateShiftsFencedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateReply("```json\n" + proposalJSON() + "\n```")))
	}))
	defer server.Close()

	proposal, err := testClient(server.URL).GenerateShifts(context.Background(), nil, models.DefaultSettings(), nil,
		models.DateRange{Start: "2024-01-01", End: "2024-01-01"})
	if err != nil {
		t.Fatalf("GenerateShifts failed: %v", err)
	}
	if !proposal.Success {
		t.Error("Expected the fenced reply to be parsed")
	}
}

func TestGenerateShiftsUnusableReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateReply("Sorry, I cannot build a schedule today.")))
	}))
	defer server.Close()

	proposal, err := testClient(server.URL).GenerateShifts(context.Background(), nil, models.DefaultSettings(), nil,
		models.DateRange{Start: "2024-01-01", End: "2024-01-01"})
	if err != nil {
		t.Fatalf("Expected an unusable reply to come back as a failure proposal, got error %v", err)
	}
	if proposal.Success {
		t.Error("Expected a failure proposal")
	}
	if len(proposal.Conflicts) != 1 || proposal.Conflicts[0].Severity != "high" {
		t.Errorf("Expected one high-severity conflict, got %+v", proposal.Conflicts)
	}
	if proposal.OptimizationScore != 0 {
		t.Errorf("Expected score 0, got %f", proposal.OptimizationScore)
	}
}

func TestCallAPIRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(candidateReply("ok")))
	}))
	defer server.Close()

	text, err := testClient(server.URL).callAPI(context.Background(), "ping")
	if err != nil {
		t.Fatalf("Expected the third attempt to succeed, got %v", err)
	}
	if text != "ok" {
		t.Errorf("Expected ok, got %q", text)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestCallAPIGivesUp(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"error": {"code": 429, "message": "rate limited"}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).callAPI(context.Background(), "ping")
	if err == nil {
		t.Fatal("Expected an error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Expected the API message to surface, got %v", err)
	}
}

func TestCallAPINoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).callAPI(context.Background(), "ping"); err == nil {
		t.Error("Expected an error for an empty candidate list")
	}
}

func TestCallAPINoKey(t *testing.T) {
	c := NewClient("http://unused", "m", func() string { return "" })
	if _, err := c.callAPI(context.Background(), "ping"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got %v", err)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	staffList := models.SeedStaff()
	requests := []models.ShiftRequest{
		{ID: "r1", StaffID: "2", Date: "2024-01-03", Type: models.RequestOff, Priority: models.PriorityHigh, Reason: "family"},
	}
	rng := models.DateRange{Start: "2024-01-01", End: "2024-01-07"}

	first := BuildPrompt(staffList, models.DefaultSettings(), requests, rng)
	second := BuildPrompt(staffList, models.DefaultSettings(), requests, rng)
	if first != second {
		t.Error("Expected identical prompts for identical inputs")
	}
	if !strings.Contains(first, "2024-01-01") || !strings.Contains(first, "2024-01-07") {
		t.Error("Expected the period bounds in the prompt")
	}
	if !strings.Contains(first, "family") {
		t.Error("Expected the request reason in the prompt")
	}
	if !strings.Contains(first, "ONLY a JSON object") {
		t.Error("Expected the JSON-only instruction")
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\": 1}":                      `{"a": 1}`,
		"```json\n{\"a\": 1}\n```":        `{"a": 1}`,
		"```\n{\"a\": 1}\n```":            `{"a": 1}`,
		"  \n```json\n{\"a\": 1}\n```\n ": `{"a": 1}`,
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
