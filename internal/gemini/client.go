package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// SetBaseURL points the client at a different endpoint (proxies, tests).
func (c *Client) SetBaseURL(u string) {
	if u != "" {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type request struct {
	Contents []content `json:"contents"`
}

type response struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Reason string `json:"reason"`
		} `json:"details"`
	} `json:"error"`
}

// Generate sends a single user prompt to generateContent and returns the text of the first candidate.
// Failures carry an apperr kind: InvalidCredential, QuotaExceeded or Transport.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(request{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.Transport, "api call", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.Transport, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classify(resp.StatusCode, respBody)
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", apperr.Wrap(apperr.Transport, "unmarshal response", err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", apperr.New(apperr.Transport, "api call", "empty response content")
	}

	var sb strings.Builder
	for _, p := range apiResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

func classify(status int, body []byte) error {
	var errResp errorResponse
	msg := string(body)
	var apiStatus, reason string
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
		apiStatus = errResp.Error.Status
		for _, d := range errResp.Error.Details {
			if d.Reason != "" {
				reason = d.Reason
				break
			}
		}
	}

	err := fmt.Errorf("api error %d: %s", status, msg)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden,
		apiStatus == "UNAUTHENTICATED" || apiStatus == "PERMISSION_DENIED",
		reason == "API_KEY_INVALID":
		return apperr.Wrap(apperr.InvalidCredential, "api call", err)
	case status == http.StatusTooManyRequests, apiStatus == "RESOURCE_EXHAUSTED":
		return apperr.Wrap(apperr.QuotaExceeded, "api call", err)
	default:
		return apperr.Wrap(apperr.Transport, "api call", err)
	}
}
