package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp(t *testing.T) {
	t.Setenv("SYMPAC_SERVER_LOG_LEVEL", "warn")
	t.Setenv("SYMPAC_ILSWS_HOSTNAME", "ils.example.org")
	t.Setenv("SYMPAC_ILSWS_WEBAPP", "ilsws")
	t.Setenv("SYMPAC_ILSWS_CLIENT_ID", "client-1")
	t.Setenv("SYMPAC_ILSWS_RESET_PIN_URL", "https://library.example.org/reset")

	cfg, log, err := initializeApp()
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
	assert.Equal(t, "https://ils.example.org:443/ilsws", cfg.ILSWS.BaseURL())
}

func TestInitializeAppInvalidConfig(t *testing.T) {
	t.Setenv("SYMPAC_ILSWS_HOSTNAME", "")
	t.Setenv("SYMPAC_ILSWS_RESET_PIN_URL", "not a url")

	_, _, err := initializeApp()
	assert.ErrorContains(t, err, "failed to load configuration")
}
