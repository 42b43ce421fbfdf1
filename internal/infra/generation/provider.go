package generation

import (
	"log/slog"

	"deckbox/config"
	"deckbox/internal/domain/constants"
	"deckbox/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ProviderParams holds dependencies for GenerationProvider, injected by Fx
type ProviderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewGenerationProvider creates a GenerationProvider based on configuration
func NewGenerationProvider(params ProviderParams) (service.GenerationProvider, error) {
	cfg := params.Config.Generation
	logger := params.Logger

	// If generation is not configured, fall back to the stub provider
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.GenerationProviderStub {
		logger.Info("Generation gateway not configured, using stub provider")

		return NewStubProvider(logger), nil
	}

	switch cfg.Provider {
	case constants.GenerationProviderHTTP:
		if cfg.Endpoint == "" {
			return nil, errors.New("endpoint is required for http generation provider")
		}
		logger.Info("Using HTTP generation provider",
			slog.String("endpoint", cfg.Endpoint),
		)

		return NewHTTPProvider(cfg.Endpoint, cfg.APIKey, cfg.Timeout, logger), nil

	default:
		return nil, errors.Errorf("unknown generation provider: %s", cfg.Provider)
	}
}

// Module provides the generation FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewGenerationProvider),
)
