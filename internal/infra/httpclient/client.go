package httpclient

import (
	"net"
	"net/http"

	"github.com/learnhub/server/internal/shared/config"
)

// UserAgent identifies this service to the payment provider.
const UserAgent = "learnhub-webhooks/1.0"

// New returns the pooled client used for provider reads. ResponseTimeout
// bounds each call end to end, body read included.
func New(cfg config.HTTPClientConfig) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.DialTimeout, KeepAlive: cfg.KeepAlive}

	return &http.Client{
		Timeout: cfg.ResponseTimeout,
		Transport: &userAgentTransport{
			next: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         dialer.DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        cfg.MaxIdleConns,
				MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
				MaxConnsPerHost:     cfg.MaxConnsPerHost,
				IdleConnTimeout:     cfg.IdleConnTimeout,
				TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
			},
		},
	}
}

type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", UserAgent)
	return t.next.RoundTrip(req)
}
