// Package gemini calls the Gemini REST API to generate shift proposals.
// Transport failures retry with linear backoff; unusable replies
// degrade to a failure Proposal, never a panic or a partial plan.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mhayashi/salon-shift-api/pkg/models"
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("gemini api key is not configured")

// KeyProvider yields the current API key. A func type keeps the client
// decoupled from where the key lives.
type KeyProvider func() string

// Client talks to the Gemini generateContent endpoint.
type Client struct {
	BaseURL    string
	Model      string
	Key        KeyProvider
	HTTPClient *http.Client

	retries int
	delay   time.Duration
}

// NewClient builds a client with the default retry policy: three
// attempts with linearly growing backoff.
func NewClient(baseURL, model string, key KeyProvider) *Client {
	return &Client{
		BaseURL:    baseURL,
		Model:      model,
		Key:        key,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		retries:    3,
		delay:      time.Second,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateShifts builds the prompt, calls the model and parses the
// reply into a Proposal. The returned error covers transport and
// configuration failures only; an unusable reply comes back as a
// failure Proposal with a nil error.
func (c *Client) GenerateShifts(ctx context.Context, staffList []models.Staff, settings models.StoreSettings, requests []models.ShiftRequest, period models.DateRange) (models.Proposal, error) {
	prompt := BuildPrompt(staffList, settings, requests, period)
	reply, err := c.callAPI(ctx, prompt)
	if err != nil {
		return models.Proposal{}, err
	}
	return ParseProposal(reply), nil
}

// TestConnection makes a minimal request to verify the key and endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.callAPI(ctx, "Reply with the single word: ok")
	return err
}

// callAPI posts the prompt and returns the first candidate's text.
// Each failed attempt waits attempt*delay before the next.
func (c *Client) callAPI(ctx context.Context, prompt string) (string, error) {
	key := c.Key()
	if key == "" {
		return "", ErrNoAPIKey
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.1,
			TopK:            1,
			TopP:            0.8,
			MaxOutputTokens: 4096,
		},
		SafetySettings: []safetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, key)

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt-1) * c.delay):
			}
		}

		text, err := c.post(ctx, url, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Warn().Int("attempt", attempt).Err(err).Msg("Gemini request failed")
	}
	return "", fmt.Errorf("gemini request failed after %d attempts: %w", c.retries, lastErr)
}

func (c *Client) post(ctx context.Context, url string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("unreadable response (status %d): %w", resp.StatusCode, err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("response contained no candidates")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}
