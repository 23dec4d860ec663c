package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitializeWriter(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "warn", "json")
	t.Cleanup(func() { Initialize("info", "text") })

	Info("hidden")
	Warn("visible", "account_id", "abc")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"visible"`)
	assert.Contains(t, buf.String(), `"account_id":"abc"`)
}

func TestStoreResult(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "debug", "text")
	t.Cleanup(func() { Initialize("info", "text") })

	StoreResult("UPDATE", "user_profiles", 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "Store call failed")
	assert.Contains(t, buf.String(), "table=user_profiles")

	buf.Reset()
	WithWorkflow("registration", "42").Info("step done")
	assert.Contains(t, buf.String(), "workflow=registration")
	assert.Contains(t, buf.String(), "account_id=42")
}
