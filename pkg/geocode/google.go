package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-tracker/internal/resilience"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrNoAPIKey is returned when no Google API key is configured.
var ErrNoAPIKey = eris.New("geocode: google api key not configured")

// googleGeocodeResponse is the JSON response from the Google Geocoding API.
type googleGeocodeResponse struct {
	Results      []googleResult `json:"results"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
}

type googleResult struct {
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
		LocationType string `json:"location_type"`
	} `json:"geometry"`
	FormattedAddress string `json:"formatted_address"`
	PlaceID          string `json:"place_id"`
}

// geocodeGoogle performs one API call. Rate limiting, server errors and
// OVER_QUERY_LIMIT come back as transient errors.
func (g *geocoder) geocodeGoogle(ctx context.Context, query string) ([]Candidate, error) {
	if g.googleKey == "" {
		return nil, ErrNoAPIKey
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: google rate limit")
	}

	params := url.Values{
		"address": {query},
		"key":     {g.googleKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleGeocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google build request")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("geocode: google returned status %d", resp.StatusCode)
		if resilience.RetryableStatus(resp.StatusCode) {
			return nil, resilience.Transient(err, resp.StatusCode)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google read body")
	}

	var googleResp googleGeocodeResponse
	if err := json.Unmarshal(body, &googleResp); err != nil {
		return nil, eris.Wrap(err, "geocode: google parse response")
	}

	switch googleResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []Candidate{}, nil
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return nil, resilience.Transient(
			eris.Errorf("geocode: google status %s", googleResp.Status), http.StatusTooManyRequests)
	default:
		return nil, eris.Errorf("geocode: google status %s: %s", googleResp.Status, googleResp.ErrorMessage)
	}

	cands := make([]Candidate, 0, len(googleResp.Results))
	for _, r := range googleResp.Results {
		cands = append(cands, Candidate{
			FormattedAddress: r.FormattedAddress,
			Latitude:         r.Geometry.Location.Lat,
			Longitude:        r.Geometry.Location.Lng,
			Quality:          googleLocationTypeToQuality(r.Geometry.LocationType),
			PlaceID:          r.PlaceID,
		})
	}
	return cands, nil
}

// googleLocationTypeToQuality maps Google's location_type to our quality taxonomy.
func googleLocationTypeToQuality(locType string) string {
	switch strings.ToUpper(locType) {
	case "ROOFTOP":
		return "rooftop"
	case "RANGE_INTERPOLATED":
		return "range"
	case "GEOMETRIC_CENTER":
		return "centroid"
	default:
		return "approximate"
	}
}
