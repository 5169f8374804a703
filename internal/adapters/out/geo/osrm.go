package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var _ ports.DistanceProvider = (*OSRMClient)(nil)

// OSRMClient queries the route service of an OSRM-compatible server.
type OSRMClient struct {
	baseURL    string
	httpClient *http.Client
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// NewOSRMClient creates a client for the server at baseURL. A nil httpClient
// means http.DefaultClient; deadlines come from the request context.
func NewOSRMClient(baseURL string, httpClient *http.Client) (*OSRMClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("osrm base url", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OSRMClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// Distance returns the driving route between two points. Every failure wraps
// ports.ErrDistanceProviderUnavailable.
func (c *OSRMClient) Distance(ctx context.Context, from, to kernel.Location) (ports.Route, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.routeURL(from, to), nil)
	if err != nil {
		return ports.Route{}, unavailable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.Route{}, unavailable(err)
	}
	defer resp.Body.Close()

	var body osrmResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.Route{}, unavailable(fmt.Errorf("status %d: decode response: %w", resp.StatusCode, err))
	}
	if resp.StatusCode != http.StatusOK || body.Code != "Ok" {
		return ports.Route{}, unavailable(fmt.Errorf("status %d: code %q: %s", resp.StatusCode, body.Code, body.Message))
	}
	if len(body.Routes) == 0 {
		return ports.Route{}, unavailable(fmt.Errorf("no route between %s and %s", from, to))
	}

	return ports.Route{
		Meters:  body.Routes[0].Distance,
		Seconds: body.Routes[0].Duration,
	}, nil
}

// routeURL builds /route/v1/driving/{lng},{lat};{lng},{lat}?overview=false.
func (c *OSRMClient) routeURL(from, to kernel.Location) string {
	return c.baseURL + "/route/v1/driving/" +
		coordinate(from) + ";" + coordinate(to) + "?overview=false"
}

func coordinate(l kernel.Location) string {
	return strconv.FormatFloat(l.Lng(), 'f', -1, 64) + "," + strconv.FormatFloat(l.Lat(), 'f', -1, 64)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ports.ErrDistanceProviderUnavailable, err)
}
