package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
// Returns the buffer and a cleanup function to restore original output.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false
	mu.Unlock()

	reconfigure()

	cleanup := func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		reconfigure()
	}

	return buf, cleanup
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		assert.Contains(t, out, "debug message")
		assert.Contains(t, out, "info message")
		assert.Contains(t, out, "warn message")
		assert.Contains(t, out, "error message")
	})

	t.Run("WarnLevelSuppressesLowerLevels", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("WARN")
		defer SetLevel("INFO")

		Debug("debug message")
		Info("info message")
		Warn("warn message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
	})

	t.Run("InvalidLevelIsIgnored", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetLevel("LOUD")

		Info("still logged")
		assert.Contains(t, buf.String(), "still logged")
	})
}

func TestStructuredFields(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("text")

	Info("node paused", KeyNode, "node1", KeyStatus, 0)

	out := buf.String()
	assert.Contains(t, out, "node paused")
	assert.Contains(t, out, "node=node1")
	assert.Contains(t, out, "status=0 (0x0)")
}

func TestStatusFieldRendering(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("text")

	Warn("pause failed", KeyNode, "node2", KeyStatus, 31)

	out := buf.String()
	assert.Contains(t, out, "status=31 (0x1f)")
}

func TestJSONFormat(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetFormat("json")
	defer SetFormat("text")

	Info("group moved", KeyGroup, "sql", KeyTarget, "node2")

	var record map[string]any
	line := strings.TrimSpace(buf.String())
	require.NoError(t, json.Unmarshal([]byte(line), &record))

	assert.Equal(t, "group moved", record["msg"])
	assert.Equal(t, "sql", record[KeyGroup])
	assert.Equal(t, "node2", record[KeyTarget])
}

func TestContextFields(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("text")

	lc := NewLogContext("req-42", "10.0.0.9").WithCluster("PRODCLUS").WithOp("PauseClusterNode")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "request handled", KeyStatusCode, 200)

	out := buf.String()
	assert.Contains(t, out, "request_id=req-42")
	assert.Contains(t, out, "remote_ip=10.0.0.9")
	assert.Contains(t, out, "cluster=PRODCLUS")
	assert.Contains(t, out, "op=PauseClusterNode")
	assert.Contains(t, out, "status_code=200")
}

func TestContextHelpers(t *testing.T) {
	t.Run("FromContextWithoutValueReturnsNil", func(t *testing.T) {
		assert.Nil(t, FromContext(context.Background()))
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		lc := NewLogContext("req-1", "10.0.0.1")
		clone := lc.WithOp("OnlineClusterResource")
		assert.Empty(t, lc.Op)
		assert.Equal(t, "OnlineClusterResource", clone.Op)
		assert.Equal(t, "req-1", clone.RequestID)
	})

	t.Run("NilLogContextIsTolerated", func(t *testing.T) {
		var lc *LogContext
		assert.Nil(t, lc.Clone())
		assert.Nil(t, lc.WithOp("x"))
		assert.Zero(t, lc.DurationMs())
	})
}

func TestErrAttr(t *testing.T) {
	assert.Equal(t, "", Err(nil).Value.String())
	assert.Equal(t, assert.AnError.Error(), Err(assert.AnError).Value.String())
}

func TestComponentLogger(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("text")

	Component("api").Info("listening", KeyAddr, ":8080")

	out := buf.String()
	assert.Contains(t, out, "component=api")
	assert.Contains(t, out, "addr=:8080")
}
