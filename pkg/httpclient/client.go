// Package httpclient provides the retrying HTTP client pipeguard uses to
// fetch remote rule files.
package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// ignoreProxy disables HTTP_PROXY handling when set.
var ignoreProxy atomic.Bool

func SetIgnoreProxy(ignore bool) {
	ignoreProxy.Store(ignore)
}

// HeaderRoundTripper adds default headers that are not already set on a request.
type HeaderRoundTripper struct {
	Headers map[string]string
	Next    http.RoundTripper
}

func (hrt *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if hrt.Next == nil {
		return nil, http.ErrNotSupported
	}

	for k, v := range hrt.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	return hrt.Next.RoundTrip(req)
}

// GetPipeguardHTTPClient returns a retryable client that retries on transport
// errors, 429 and 5xx (except 501) and honours HTTP_PROXY unless disabled.
func GetPipeguardHTTPClient(defaultHeaders map[string]string) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3

	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			log.Debug().Err(err).Msg("Retrying HTTP request, error occurred")
			return true, nil
		}
		if resp == nil {
			return false, nil
		}
		if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented) {
			log.Trace().Int("statusCode", resp.StatusCode).Msg("Retrying HTTP request")
			return true, nil
		}
		return false, nil
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if !ignoreProxy.Load() {
		if proxyServer, ok := os.LookupEnv("HTTP_PROXY"); ok {
			proxyURL, err := url.Parse(proxyServer)
			if err != nil {
				log.Warn().Err(err).Str("HTTP_PROXY", proxyServer).Msg("Ignoring invalid proxy URL")
			} else {
				log.Debug().Str("proxy", proxyURL.String()).Msg("Using HTTP_PROXY")
				tr.Proxy = http.ProxyURL(proxyURL)
			}
		}
	} else {
		tr.Proxy = nil
	}

	client.HTTPClient.Transport = &HeaderRoundTripper{Headers: defaultHeaders, Next: tr}
	return client
}

// NewRequest builds a retryable request bound to ctx.
func NewRequest(ctx context.Context, method, rawURL string) (*retryablehttp.Request, error) {
	return retryablehttp.NewRequestWithContext(ctx, method, rawURL, nil)
}
