package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"techsite/web/internal/manifest"
)

// HTTP implements API over the identity service's REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "https://id.example.com")
	baseURL string
	// endpoints contains the URL paths for the identity endpoints
	endpoints manifest.HTTPEndpoints
	// client is the underlying HTTP client with configured timeout
	client *http.Client
}

// newHTTP creates a new HTTP client with the given base URL and endpoints.
// It configures a 10-second timeout for all requests.
func newHTTP(baseURL string, endpoints manifest.HTTPEndpoints) *HTTP {
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope is the { success, data, error } wrapper used by user and
// verification endpoints.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// do sends a JSON request and returns the response. body may be nil.
func (h *HTTP) do(ctx context.Context, method, path, bearer string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return h.client.Do(req)
}

// setStandardHeaders applies headers every identity call carries.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "techsite/1.0")
}

// callEnvelope performs a request against an envelope endpoint and decodes
// data into out when out is non-nil.
func (h *HTTP) callEnvelope(ctx context.Context, op, method, path, bearer string, body, out any) error {
	resp, err := h.do(ctx, method, path, bearer, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return fmt.Errorf("%s failed: %d %s", op, resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if !env.Success || resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s failed: %d %s", op, resp.StatusCode, msg)
	}
	if out != nil {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return fmt.Errorf("%s: %w", op, errors.New("empty data"))
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: decode data: %w", op, err)
		}
	}
	return nil
}

// GetVersion calls GET /api/version and returns the version string when available.
// No authentication required. This can be used to check connectivity to the identity service.
func (h *HTTP) GetVersion(ctx context.Context) (string, error) {
	resp, err := h.do(ctx, http.MethodGet, h.endpoints.Version, "", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}
