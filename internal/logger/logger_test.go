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

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	Info("appended rows", StoreName("weekly-digest"), Count(3))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "appended rows", record["msg"])
	assert.Equal(t, "weekly-digest", record[KeyStoreName])
	assert.Equal(t, float64(3), record[KeyCount])
}

func TestDebugSuppressedBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	Debug("should not appear")

	assert.Empty(t, buf.String())
}

func TestInfoCtxInjectsContextFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	ctx := WithContext(context.Background(), NewLogContext("append").WithName("weekly-digest"))
	InfoCtx(ctx, "starting append")

	out := buf.String()
	assert.True(t, strings.Contains(out, `"operation":"append"`))
	assert.True(t, strings.Contains(out, `"store_name":"weekly-digest"`))
}
