// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// GenerationProvider abstracts the third-party AI services used to produce
// artwork and card text during deck assembly. The customization engine never
// calls it; only the initial box/deck generation flow does, synchronously.
type GenerationProvider interface {
	// GenerateImage produces an image for the prompt and returns a URI
	// (remote URL or data URI) that can be placed on an image element.
	GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error)

	// GenerateText produces text for the prompt, optionally steered by a
	// system instruction.
	GenerateText(ctx context.Context, prompt string, systemInstruction string) (string, error)
}
