package generation

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"

	"deckbox/internal/domain/service"
)

// stubProvider returns deterministic placeholder assets. It is the default
// when no generation gateway is configured, and what the tests run against.
type stubProvider struct {
	logger *slog.Logger
}

// NewStubProvider creates a provider that fabricates stable placeholder
// results without any network calls.
func NewStubProvider(logger *slog.Logger) service.GenerationProvider {
	return &stubProvider{logger: logger}
}

func (p *stubProvider) GenerateImage(_ context.Context, prompt string, aspectRatio string) (string, error) {
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	return fmt.Sprintf("https://placeholder.local/generated/%x?ratio=%s", promptDigest(prompt), strings.ReplaceAll(aspectRatio, ":", "x")), nil
}

func (p *stubProvider) GenerateText(_ context.Context, prompt string, systemInstruction string) (string, error) {
	if strings.Contains(strings.ToLower(systemInstruction), "list") || strings.Contains(strings.ToLower(prompt), "names") {
		return "1. Ember Warden\n2. Gale Scribe\n3. Hollow Sentinel\n4. Tide Caller\n5. Ash Wanderer", nil
	}

	return fmt.Sprintf("Placeholder text for prompt %x.", promptDigest(prompt)), nil
}

func promptDigest(prompt string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))

	return h.Sum32()
}
