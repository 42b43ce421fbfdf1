// Package constants holds shared provider identifiers.
package constants

// Pub/Sub provider names accepted in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Generation provider names accepted in configuration.
const (
	GenerationProviderHTTP = "http"
	GenerationProviderStub = "stub"
)
