package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/latinum-ai/mercator/internal/models"
)

const FindFlightsToolName = "find_flights"

// FindFlightsRequest represents the tool input.
type FindFlightsRequest struct {
	Origin      string `json:"origin" jsonschema:"title=Origin,description=Departure airport or city."`
	Destination string `json:"destination" jsonschema:"title=Destination,description=Arrival airport or city."`
	Date        string `json:"date,omitempty" jsonschema:"title=Date,description=Departure date (YYYY-MM-DD). Empty means any date."`
}

// FindFlightsResult represents the tool output.
type FindFlightsResult struct {
	Flights []*models.Flight `json:"flights"`
}

// FindFlightsTool searches flights through the configured provider.
type FindFlightsTool struct {
	flights models.FlightService
}

var _ Tool = (*FindFlightsTool)(nil)

func NewFindFlightsTool(flights models.FlightService) *FindFlightsTool {
	return &FindFlightsTool{flights: flights}
}

func (t *FindFlightsTool) Name() string {
	return FindFlightsToolName
}

func (t *FindFlightsTool) Description() string {
	return "Searches flights between two places on an optional date."
}

func (t *FindFlightsTool) Parameters() *jsonschema.Schema {
	return inputSchema(&FindFlightsRequest{})
}

func (t *FindFlightsTool) Call(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req FindFlightsRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input: %w", err)
	}

	flights, err := t.flights.FindFlights(ctx, req.Origin, req.Destination, req.Date)
	if err != nil {
		return nil, err
	}
	return &FindFlightsResult{Flights: flights}, nil
}
