// SPDX-License-Identifier: MPL-2.0

package ctxlog

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug")
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Debug("resolved module", "path", "/src/vars.js")
	if !strings.Contains(buf.String(), "resolved module") || !strings.Contains(buf.String(), "/src/vars.js") {
		t.Errorf("log output = %q, want message and key/value", buf.String())
	}
}

func TestFromContext_MissingLoggerDiscards(t *testing.T) {
	t.Parallel()

	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("FromContext() returned nil")
	}
	logger.Info("dropped")
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log output = %q", buf.String())
	}

	buf.Reset()
	NewWithWriter(&buf, "bogus").Debug("below info")
	if buf.Len() != 0 {
		t.Errorf("unknown level should default to info, got %q", buf.String())
	}
}
