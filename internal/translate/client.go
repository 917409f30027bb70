package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"medmind/internal/lang"
	"medmind/internal/reliability"
)

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, text string, source, target lang.Code) (string, error)
}

// HTTPTranslator calls a LibreTranslate-compatible endpoint. Transient
// upstream statuses are retried once with backoff.
type HTTPTranslator struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPTranslator(url, apiKey string, timeout time.Duration) *HTTPTranslator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPTranslator{
		url:    strings.TrimSpace(url),
		apiKey: strings.TrimSpace(apiKey),
		client: &http.Client{Timeout: timeout},
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text string, source, target lang.Code) (string, error) {
	if t.url == "" {
		return "", fmt.Errorf("translation endpoint not configured")
	}

	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: string(source),
		Target: string(target),
		Format: "text",
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	const maxAttempts = 2
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := reliability.ExponentialBackoff(attempt, 200*time.Millisecond, time.Second)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, retryable, err := t.attempt(ctx, payload)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", lastErr
}

func (t *HTTPTranslator) attempt(ctx context.Context, payload []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", reliability.IsRetryableHTTPStatus(res.StatusCode),
			fmt.Errorf("translate http status %d: %s", res.StatusCode, string(body))
	}

	var parsed translateResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(parsed.TranslatedText) == "" {
		return "", false, fmt.Errorf("empty translation in response")
	}
	return parsed.TranslatedText, false, nil
}
