// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// ParseLevel maps a level name to a pterm log level. Empty means info.
func ParseLevel(s string) (pterm.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return pterm.LogLevelTrace, nil
	case "debug":
		return pterm.LogLevelDebug, nil
	case "info", "":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	case "off", "disabled":
		return pterm.LogLevelDisabled, nil
	default:
		return pterm.LogLevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// New builds the process logger. format is "text" (colorful) or "json".
// A nil writer means stderr.
func New(level, format string, w io.Writer) (*pterm.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	l := pterm.DefaultLogger.WithLevel(lvl).WithWriter(w)
	switch strings.ToLower(format) {
	case "json":
		l = l.WithFormatter(pterm.LogFormatterJSON)
	case "text", "":
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return l, nil
}

// Discard returns a logger that drops everything. Used as the default when
// a component is built without one.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled).WithWriter(io.Discard)
}
