package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturas/internal/logger"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logger.Setup(logger.Options{Level: "info", Format: "json", Output: &buf}))

	l := logger.WithComponent("extraction")
	l.Info().Str("draft_id", "d1").Msg("applied")
	l.Debug().Msg("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "extraction", entry["component"])
	assert.Equal(t, "d1", entry["draft_id"])
	assert.Equal(t, "applied", entry["message"])
}

func TestSetup_BadLevel(t *testing.T) {
	assert.Error(t, logger.Setup(logger.Options{Level: "loud"}))
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logger.Setup(logger.Options{Level: "debug", Format: "json", Output: &buf}))

	scoped := zerolog.New(&buf).With().Str("request_id", "r-1").Logger()
	ctx := scoped.WithContext(context.Background())
	logger.Ctx(ctx).Info().Msg("scoped")
	assert.Contains(t, buf.String(), "r-1")

	buf.Reset()
	logger.Ctx(context.Background()).Info().Msg("global")
	assert.Contains(t, buf.String(), "global")
}
