// Package generation implements the GenerationProvider domain service
// against an external HTTP generation gateway, with a deterministic stub for
// development and tests.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"deckbox/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultRequestTimeout = 90 * time.Second

// httpProvider calls a generation gateway over HTTP. The gateway shape is
// the one the original front-end proxy exposes: POST /images and /text with
// JSON bodies, results returned inline.
type httpProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

type imageRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

type imageResponse struct {
	URL string `json:"url"`
}

type textRequest struct {
	Prompt            string `json:"prompt"`
	SystemInstruction string `json:"system_instruction,omitempty"`
}

type textResponse struct {
	Text string `json:"text"`
}

// NewHTTPProvider creates a provider backed by an HTTP generation gateway.
func NewHTTPProvider(endpoint, apiKey string, timeout time.Duration, logger *slog.Logger) service.GenerationProvider {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &httpProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GenerateImage produces an image for the prompt and returns its URI.
func (p *httpProvider) GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error) {
	var out imageResponse
	err := p.post(ctx, "/images", &imageRequest{Prompt: prompt, AspectRatio: aspectRatio}, &out)
	if err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New("generation gateway returned an empty image url")
	}

	return out.URL, nil
}

// GenerateText produces text for the prompt.
func (p *httpProvider) GenerateText(ctx context.Context, prompt string, systemInstruction string) (string, error) {
	var out textResponse
	err := p.post(ctx, "/text", &textRequest{Prompt: prompt, SystemInstruction: systemInstruction}, &out)
	if err != nil {
		return "", err
	}

	return out.Text, nil
}

func (p *httpProvider) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "generation gateway request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return errors.Errorf("generation gateway returned status %d: %s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode generation gateway response")
	}

	p.logger.Debug("Generation gateway call completed",
		slog.String("path", path),
		slog.Duration("elapsed", time.Since(start)),
	)

	return nil
}
