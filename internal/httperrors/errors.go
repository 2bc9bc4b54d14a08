// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures into messages a person can act on.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Class groups network failures by what the user can do about them.
type Class int

const (
	Generic Class = iota
	Timeout
	DNS
	Refused
	TLS
	Server
)

// Classify inspects err and its chain.
func Classify(err error) Class {
	switch {
	case err == nil:
		return Generic
	case isTimeout(err):
		return Timeout
	case isDNS(err):
		return DNS
	case isRefused(err):
		return Refused
	case isTLS(err):
		return TLS
	case isServer(err.Error()):
		return Server
	}
	return Generic
}

// FormatNetworkError prints a friendly explanation of err for the given
// action ("signing in", "refreshing the session") and returns err wrapped.
func FormatNetworkError(err error, action, baseURL string) error {
	if err == nil {
		return nil
	}
	host := ExtractHostFromURL(baseURL)
	class := Classify(err)

	pterm.Error.Printf("%s while %s\n", headline(class), action)
	for _, line := range hints(class, host) {
		pterm.Println("  • " + line)
	}
	pterm.Println()
	if class == Generic || class == Server {
		pterm.Debug.Printf("Technical details: %s\n", truncate(err.Error(), 100))
	}
	return fmt.Errorf("network error: %w", err)
}

func headline(c Class) string {
	switch c {
	case Timeout:
		return "Connection timed out"
	case DNS:
		return "Cannot resolve the identity service address"
	case Refused:
		return "Connection refused"
	case TLS:
		return "Secure connection failed"
	case Server:
		return "The identity service returned a server error"
	default:
		return "Cannot reach the identity service"
	}
}

func hints(c Class, host string) []string {
	switch c {
	case Timeout:
		return []string{"The service may be under load", "Check your connection and try again"}
	case DNS:
		return []string{"Check that " + host + " is spelled correctly in base_url", "Check your DNS settings"}
	case Refused:
		return []string{"Is the service running on " + host + "?", "Check base_url and firewall rules"}
	case TLS:
		return []string{"Check your system clock", "Check proxy settings that intercept HTTPS"}
	case Server:
		return []string{"This is not a problem with your setup", "Try again in a few minutes"}
	default:
		return []string{"Check your internet connection", "Check that " + host + " is reachable"}
	}
}

func isTimeout(err error) bool {
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded") {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNS(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLS(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "tls") || strings.Contains(s, "x509") ||
		strings.Contains(s, "certificate") || strings.Contains(s, "handshake")
}

func isServer(s string) bool {
	s = strings.ToLower(s)
	for _, marker := range []string{"500", "502", "503", "504", "internal server error", "bad gateway", "service unavailable"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ExtractHostFromURL returns the host of urlStr, or "server" when it has none.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
