package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"deadline", fmt.Errorf("refresh: %w", context.DeadlineExceeded), Timeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "id.example"}, DNS},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, Refused},
		{"tls", errors.New("x509: certificate signed by unknown authority"), TLS},
		{"server", errors.New("refresh failed: status 502 body=bad gateway"), Server},
		{"other", errors.New("EOF"), Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFormatNetworkErrorWraps(t *testing.T) {
	base := errors.New("connection refused")
	err := FormatNetworkError(base, "signing in", "https://id.example")
	assert.ErrorIs(t, err, base)
	assert.NoError(t, FormatNetworkError(nil, "signing in", ""))
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "id.example:8443", ExtractHostFromURL("https://id.example:8443/api"))
	assert.Equal(t, "server", ExtractHostFromURL("not a url"))
}
