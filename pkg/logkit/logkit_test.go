package logkit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"go.llib.dev/testcase/assert"

	"github.com/mikemcowie/brewing/pkg/logkit"
)

func TestNew(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logkit.New(logkit.Config{Level: "info", Out: &buf})
		logger.Info().Str("key", "value").Msg("hello")

		var event map[string]any
		assert.NoError(t, json.Unmarshal(buf.Bytes(), &event))
		assert.Equal[any](t, "hello", event["message"])
		assert.Equal[any](t, "value", event["key"])
	})
	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logkit.New(logkit.Config{Level: "warn", Out: &buf})
		logger.Info().Msg("filtered out")
		assert.Empty(t, buf.String())
	})
	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logkit.New(logkit.Config{Level: "nope", Out: &buf})
		logger.Info().Msg("goes through")
		assert.NotEmpty(t, buf.String())
	})
}

func TestFromContext(t *testing.T) {
	t.Run("carried logger is returned", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logkit.New(logkit.Config{Out: &buf})
		ctx := logkit.ContextWith(context.Background(), logger)

		logkit.FromContext(ctx).Info().Msg("from context")
		assert.Contains(t, buf.String(), "from context")
	})
	t.Run("empty context yields a disabled logger", func(t *testing.T) {
		logger := logkit.FromContext(context.Background())
		assert.Equal(t, zerolog.Disabled, logger.GetLevel())
	})
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := logkit.New(logkit.Config{Out: &buf})

	handler := logkit.AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEqual(t, zerolog.Disabled, logkit.FromContext(r.Context()).GetLevel())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things", nil))

	var event map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal[any](t, "GET", event["method"])
	assert.Equal[any](t, "/things", event["path"])
	assert.Equal[any](t, float64(http.StatusTeapot), event["status"])
}
