package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schooldesk/schooldesk/core"
)

func newTestLogger(debug bool) (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	conf := &core.Config{Env: "TEST", Debug: debug}
	logger := NewRollbarLogger(log.New(&buf, "", 0), conf)
	logger.Enable(false)
	return logger, &buf
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger, _ := newTestLogger(false)
	err1, err2 := errors.New("first"), errors.New("second")

	args := logger.prepare("msg", []interface{}{
		map[string]interface{}{"a": 1},
		err1,
		err2,
		map[string]interface{}{"b": 2},
	})

	assert.Equal(t, []interface{}{
		"msg",
		err1,
		map[string]interface{}{"a": 1, "b": 2, "arg2": err2},
	}, args)

	assert.Equal(t, []interface{}{"msg"}, logger.prepare("msg", nil))
}

func TestRollbarLogger_Debug(t *testing.T) {
	logger, buf := newTestLogger(false)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger, buf = newTestLogger(true)
	logger.Debug("shown", map[string]interface{}{"slot": "slot1"})
	assert.Contains(t, buf.String(), "DEBUG: shown")
	assert.Contains(t, buf.String(), "slot1")
}

func TestRollbarLogger_Error(t *testing.T) {
	logger, buf := newTestLogger(false)
	logger.Error("boom", errors.New("db down"))
	assert.Contains(t, buf.String(), "ERROR: boom")
	assert.Contains(t, buf.String(), "db down")
}
