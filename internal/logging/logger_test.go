// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, pterm.LogLevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, pterm.LogLevelInfo, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", "json", &buf)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("session loaded", l.Args("phase", "authenticated"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "session loaded")
	assert.Contains(t, out, "authenticated")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("info", "xml", nil)
	assert.Error(t, err)
}

func TestPresentErrorMasks(t *testing.T) {
	assert.Equal(t, "", PresentError("login", nil))
	got := PresentError("login", errors.New("rejected password=abc"))
	assert.Equal(t, "login: rejected password=***", got)
}
