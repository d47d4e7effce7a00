package validate

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/doclinks/internal/config"
)

// DefaultMaxRedirects is the redirect limit of clients built by NewHTTPClient.
const DefaultMaxRedirects = 10

// ClientOption configures NewHTTPClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	timeout      time.Duration
	proxyAddress string
	userAgent    string
	maxRedirects int
}

// WithTimeout bounds each request including redirects and body read.
// Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithProxy routes all connections through the SOCKS5 proxy at address
// ("host:port"). An empty address connects directly.
func WithProxy(address string) ClientOption {
	return func(o *clientOptions) {
		o.proxyAddress = address
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) ClientOption {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

// WithMaxRedirects sets how many redirects are followed before the request
// fails with ErrTooManyRedirects.
func WithMaxRedirects(n int) ClientOption {
	return func(o *clientOptions) {
		o.maxRedirects = n
	}
}

// NewHTTPClient creates the client used to validate links.
//
// The proxy address is validated but not contacted; an unreachable proxy
// shows up as a transport error on every link.
func NewHTTPClient(opts ...ClientOption) (*http.Client, error) {
	o := &clientOptions{maxRedirects: DefaultMaxRedirects}
	for _, opt := range opts {
		opt(o)
	}

	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport type %T", http.DefaultTransport)
	}
	transport = transport.Clone()

	if o.proxyAddress != "" {
		if !config.IsValidProxyAddress(o.proxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		// No auth: the proxy option targets local SOCKS ports such as Tor's.
		dialer, err := proxy.SOCKS5("tcp", o.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	var rt http.RoundTripper = transport
	if o.userAgent != "" {
		rt = &headerInjectingTransport{
			base:    transport,
			headers: map[string]string{"User-Agent": o.userAgent},
		}
	}

	maxRedirects := o.maxRedirects
	return &http.Client{
		Transport: rt,
		Timeout:   o.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}, nil
}

// headerInjectingTransport sets fixed headers on every outgoing request.
type headerInjectingTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}
