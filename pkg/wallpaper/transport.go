package wallpaper

import (
	"fmt"
	"net"
	"net/http"

	"github.com/dixieflatline76/wpsetter/config"
)

// DefaultUserAgent is sent with every request made through NewHTTPClient.
var DefaultUserAgent = fmt.Sprintf("%s/%s (https://github.com/dixieflatline76/wpsetter)", config.AppName, config.AppVersion)

// UserAgentTransport wraps an http.RoundTripper and adds a User-Agent header.
type UserAgentTransport struct {
	http.RoundTripper
	UserAgent string
}

// RoundTrip executes a single HTTP transaction, adding the User-Agent header.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", t.UserAgent)
	return t.base().RoundTrip(clonedReq)
}

func (t *UserAgentTransport) base() http.RoundTripper {
	if t.RoundTripper == nil {
		return http.DefaultTransport
	}
	return t.RoundTripper
}

// NewHTTPClient returns the client shared by the listing request and image downloads.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: HTTPClientRequestTimeout,
		Transport: &UserAgentTransport{
			RoundTripper: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   HTTPClientDialerTimeout,
					KeepAlive: HTTPClientKeepAlive,
				}).DialContext,
				ResponseHeaderTimeout: HTTPClientResponseHeaderTimeout,
				TLSHandshakeTimeout:   HTTPClientTLSHandshakeTimeout,
			},
			UserAgent: DefaultUserAgent,
		},
	}
}
