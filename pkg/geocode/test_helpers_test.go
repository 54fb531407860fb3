package geocode

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newGoogleTestClient returns an HTTP client that sends Geocoding API calls
// to srvURL, keeping the path suffix and query string.
func newGoogleTestClient(srvURL string) *http.Client {
	return &http.Client{Transport: &googleRedirect{base: http.DefaultTransport, srvURL: srvURL}}
}

type googleRedirect struct {
	base   http.RoundTripper
	srvURL string
}

func (t *googleRedirect) RoundTrip(req *http.Request) (*http.Response, error) {
	rest, ok := strings.CutPrefix(req.URL.String(), googleGeocodeURL)
	if !ok {
		return t.base.RoundTrip(req)
	}
	target, err := req.URL.Parse(t.srvURL + rest)
	if err != nil {
		return nil, err
	}
	out := req.Clone(req.Context())
	out.URL = target
	out.Host = target.Host
	return t.base.RoundTrip(out)
}
