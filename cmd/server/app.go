package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sympac-api/internal/config"
	"github.com/phrazzld/sympac-api/internal/ilsws"
	"github.com/phrazzld/sympac-api/internal/service"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger

	ilsClient     *ilsws.Client
	patronService service.PatronService
}

// newApplication wires the ILS client into the patron service. Upstream
// calls use a plain *http.Client, so only the transport defaults apply.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	return newApplicationWithDoer(cfg, logger, nil)
}

func newApplicationWithDoer(cfg *config.Config, logger *slog.Logger, doer ilsws.HTTPDoer) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.ilsClient = ilsws.NewClient(cfg.ILSWS, doer, logger)

	var err error
	app.patronService, err = service.NewPatronService(app.ilsClient, service.PatronServiceConfig{
		ResetPinURL:        cfg.ILSWS.ResetPinURL,
		Categories:         cfg.Patron.Categories(),
		LanguageEnabled:    cfg.Patron.Language.Enabled,
		LanguageField:      cfg.Patron.Language.Field,
		LanguageDefaultKey: cfg.Patron.Language.DefaultKey,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create patron service: %w", err)
	}

	logger.Info("Application initialized successfully", "ilsws_base_url", cfg.ILSWS.BaseURL())
	return app, nil
}

// Run serves HTTP until ctx is cancelled or the process receives
// SIGINT or SIGTERM.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
