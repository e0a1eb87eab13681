// the client package is the console's only way to reach the two backend services.
//
// Every call goes through one pipeline: resolve {base}/{controller}/{action}, attach the bearer token
// held by the credential store, run the request under the client's timeout and interpret the response.
// A 401 from any endpoint clears the credential store and sends the user to the login boundary before
// the error is returned to the caller (see response.go). There are no retries and no caching.
package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Brayan980312/ProyectoUniversidad/internal/logger"
)

const (
	// DefaultTimeout bounds every request, from dispatch until response headers arrive
	DefaultTimeout = 10 * time.Second

	// LoginPath is the login boundary users are sent to when the session is rejected
	LoginPath = "/login"
)

// CredentialStore supplies the bearer token and is cleared when a backend rejects it
type CredentialStore interface {
	Token() (string, bool)
	Clear()
}

// Navigator moves the user to another part of the console
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Config holds the client settings
type Config struct {
	SecurityBaseURL  string
	PrincipalBaseURL string

	// Timeout applies to every request made by the client. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient is optional. Its own Timeout field should be left unset; the client enforces Timeout itself.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client handles communication with the security and principal services
type Client struct {
	baseURLs    map[Service]string
	httpClient  *http.Client
	credentials CredentialStore
	navigator   Navigator
	timeout     time.Duration
	logger      *slog.Logger
}

func NewClient(cfg Config, credentials CredentialStore, navigator Navigator) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}

	return &Client{
		baseURLs: map[Service]string{
			ServiceSecurity:  cfg.SecurityBaseURL,
			ServicePrincipal: cfg.PrincipalBaseURL,
		},
		httpClient:  httpClient,
		credentials: credentials,
		navigator:   navigator,
		timeout:     timeout,
		logger:      log.With(slog.String("component", "client")),
	}
}

// Timeout returns the deadline applied to each request
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// invalidateSession runs on every 401: the stored credential is unusable everywhere, so drop it and
// send the user back to the login boundary.
func (c *Client) invalidateSession(req *http.Request) {
	attrs := []any{}
	if req != nil {
		attrs = append(attrs,
			slog.String("url", req.URL.Redacted()),
			slog.String("request_id", req.Header.Get(RequestIDHeader)),
		)
	}
	c.logger.Warn("session rejected by backend - clearing credentials", attrs...)

	if c.credentials != nil {
		c.credentials.Clear()
	}
	c.navigator.Navigate(LoginPath)
}
