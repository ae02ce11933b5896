package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIDs(t *testing.T) {
	correlationID := GenerateCorrelationID()
	requestID := GenerateRequestID()

	assert.NotEmpty(t, correlationID)
	assert.True(t, strings.HasPrefix(requestID, "req_"))
	assert.NotEqual(t, correlationID, requestID)
}

func TestContextIDs(t *testing.T) {
	ctx := WithRequestID(WithCorrelationID(context.Background(), "corr"), "req")
	assert.Equal(t, "corr", GetCorrelationID(ctx))
	assert.Equal(t, "req", GetRequestID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestLogCarriesContextAndFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	ctx := WithCorrelationID(context.Background(), "corr-1")
	LogError(ctx, "Publishing failed", errors.New("boom"), Fields{"video_id": "abc"}, Fields{"branch": "main"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Publishing failed", entry["message"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "corr-1", entry["correlation_id"])
	assert.Equal(t, "abc", entry["video_id"])
	assert.Equal(t, "main", entry["branch"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "ytmp3", entry["service"])
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &logrus.TextFormatter{}, newFormatter("TEXT"))
	assert.IsType(t, &logrus.JSONFormatter{}, newFormatter(""))
}

func TestAppErrors(t *testing.T) {
	missing := NewMissingURLError()
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)
	assert.Equal(t, MissingURLMessage, missing.Message)

	invalid := NewInvalidLinkError("https://example.com")
	assert.Equal(t, ErrorCodeInvalidInput, invalid.Code)
	assert.Contains(t, invalid.Message, "https://example.com")

	cause := fmt.Errorf("wrapped: %w", errors.New("root"))
	acq := NewAcquisitionError(cause)
	assert.Equal(t, http.StatusInternalServerError, acq.StatusCode)
	assert.Equal(t, cause.Error(), acq.Message)
	assert.ErrorIs(t, acq, cause)

	cfg := NewConfigurationError(errors.New("RAPIDAPI_KEY not set"))
	assert.NotContains(t, cfg.Message, "RAPIDAPI_KEY")
	assert.Equal(t, "[CONFIGURATION_ERROR] Service is not configured", cfg.Error())
}
