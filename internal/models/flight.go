package models

import "context"

// Flight is a single flight offer returned by the flight search service.
type Flight struct {
	// Carrier is the operating airline.
	Carrier string `json:"carrier"`
	// Price is the displayed fare, as returned by the provider.
	Price string `json:"price"`
	// Details is a free-form description (route, times, stops).
	Details string `json:"details"`
}

type FlightService interface {
	FindFlights(ctx context.Context, origin, destination, date string) ([]*Flight, error)
}
