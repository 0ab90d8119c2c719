package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"":        LogLevelInfo,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "text", Output: &buf, Component: "provisioner"})

	l.Debug("hidden")
	l.Info("agent created", "agent_id", "asst_1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "agent created")
	assert.Contains(t, out, "agent_id=asst_1")
	assert.Contains(t, out, "component=provisioner")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})
	l.Debug("json entry", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"json entry"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := With(NewLogger(&LoggerConfig{Level: LogLevelInfo, Output: &buf}), "thread_id", "thread_9")
	l.Info("posted")
	assert.Contains(t, buf.String(), "thread_id=thread_9")

	assert.Equal(t, NoOpLogger{}, With(nil))
}

func TestLogRemoteCall(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Output: &buf})

	LogRemoteCall(l, "create_agent", 15*time.Millisecond, nil, "name", "team_agent")
	assert.Contains(t, buf.String(), "Remote call completed")
	assert.Contains(t, buf.String(), "name=team_agent")

	buf.Reset()
	LogRemoteCall(l, "delete_agent", time.Millisecond, errors.New("404"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=404")
}
