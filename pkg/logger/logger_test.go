package logger

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_TeesToExtraWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := Initialize("production", &buf)
	require.NoError(t, err)

	l.Info("sync finished")
	_ = l.Sync()

	assert.Contains(t, buf.String(), `"msg":"sync finished"`)
	assert.Same(t, l, Log)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(RequestIDKey, "abc")

	assert.Equal(t, "abc", RequestID(c))
	assert.Equal(t, "xyz", RequestID(WithRequestID(context.Background(), "xyz")))
	assert.Equal(t, "unknown", RequestID(context.Background()))
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	FromContext(WithRequestID(context.Background(), "rid-1"), zap.New(core)).Info("row failed")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])
	}
}
