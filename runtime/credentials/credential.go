// Package credentials applies authentication to outbound speech service requests.
package credentials

import (
	"context"
	"net/http"
)

// DefaultHeaderName is the header the speech service reads its API key from.
const DefaultHeaderName = "x-api-key"

// Credential applies authentication to HTTP requests.
type Credential interface {
	// Apply adds authentication to the HTTP request.
	Apply(ctx context.Context, req *http.Request) error

	// Type returns the credential type identifier (e.g., "api_key").
	Type() string
}

// APIKeyCredential implements header-based API key authentication.
type APIKeyCredential struct {
	apiKey     string
	headerName string
	prefix     string
}

// APIKeyOption configures an APIKeyCredential.
type APIKeyOption func(*APIKeyCredential)

// WithHeaderName sets the header name for the API key.
func WithHeaderName(name string) APIKeyOption {
	return func(c *APIKeyCredential) {
		c.headerName = name
	}
}

// WithBearerPrefix sends the key as "Authorization: Bearer <key>".
func WithBearerPrefix() APIKeyOption {
	return func(c *APIKeyCredential) {
		c.headerName = "Authorization"
		c.prefix = "Bearer "
	}
}

// NewAPIKeyCredential creates a new API key credential.
// By default the key is sent verbatim in the x-api-key header.
func NewAPIKeyCredential(apiKey string, opts ...APIKeyOption) *APIKeyCredential {
	c := &APIKeyCredential{
		apiKey:     apiKey,
		headerName: DefaultHeaderName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply adds the API key to the request header.
func (c *APIKeyCredential) Apply(_ context.Context, req *http.Request) error {
	if c.apiKey != "" {
		req.Header.Set(c.headerName, c.prefix+c.apiKey)
	}
	return nil
}

// Type returns "api_key".
func (c *APIKeyCredential) Type() string {
	return "api_key"
}

// HeaderName returns the header the key is written to.
func (c *APIKeyCredential) HeaderName() string {
	return c.headerName
}

// Empty reports whether no key is configured.
func (c *APIKeyCredential) Empty() bool {
	return c.apiKey == ""
}
