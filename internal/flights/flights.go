package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/latinum-ai/mercator/internal/models"
	"github.com/latinum-ai/mercator/pkg/logger"
)

// searchResponse is the JSON shape returned by the flight search provider.
type searchResponse struct {
	Flights []*models.Flight `json:"flights"`
}

// Client queries an external flight search API.
type Client struct {
	logger *logger.Logger

	baseURL string
	client  *http.Client
}

// NewClient creates a new flight search client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FindFlights queries the provider for flights between origin and destination
// on the given date (date may be empty for "any").
func (c *Client) FindFlights(ctx context.Context, origin, destination, date string) ([]*models.Flight, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("flight search is not configured")
	}
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("origin and destination are required")
	}

	query := url.Values{}
	query.Set("origin", origin)
	query.Set("destination", destination)
	if date != "" {
		query.Set("date", date)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build flight search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach flight search service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected flight search status code %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode flight search response: %w", err)
	}

	c.logger.Debug("Flight search completed ", "origin ", origin, " destination ", destination, " results ", len(result.Flights))
	return result.Flights, nil
}
