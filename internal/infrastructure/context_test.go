package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-123")
	assert.Equal(t, "run-123", GetRunID(ctx))
}

func TestGetRunIDEmptyWhenAbsent(t *testing.T) {
	assert.Empty(t, GetRunID(context.Background()))
}

func TestEnsureRunID(t *testing.T) {
	ctx := EnsureRunID(context.Background())
	id := GetRunID(ctx)
	require.NotEmpty(t, id)

	// an existing ID is kept
	assert.Equal(t, id, GetRunID(EnsureRunID(ctx)))
}

func TestGenerateRunIDIsUnique(t *testing.T) {
	assert.NotEqual(t, GenerateRunID(), GenerateRunID())
}

func TestLoggerWithContext(t *testing.T) {
	logger := LoggerWithContext(WithRunID(context.Background(), "run-123"))
	assert.NotNil(t, logger)
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithComponent(logger, "pipeline").Info("started")

	assert.Contains(t, buf.String(), `"component":"pipeline"`)
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithError(logger, errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)

	buf.Reset()
	WithError(logger, nil).Info("ok")
	assert.NotContains(t, buf.String(), `"error"`)
}
