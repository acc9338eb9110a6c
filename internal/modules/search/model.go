// README: Trip search models; canonical trip records normalized from heterogeneous upstream rows.
package search

import "encoding/json"

// Trip is the canonical search result shown to the traveler.
type Trip struct {
	ID             string  `json:"id"`
	ShippingLine   string  `json:"shippingLine"`
	VesselName     string  `json:"vesselName"`
	SrcPort        string  `json:"srcPort"`
	DestPort       string  `json:"destPort"`
	DepartureTime  string  `json:"departureTime"`
	ArrivalTime    string  `json:"arrivalTime"`
	Duration       string  `json:"duration"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"availableSeats"`
}

// Query is a fully specified trip search.
type Query struct {
	OriginCode    string
	DestCode      string
	DepartureDate string // YYYY-MM-DD
	Passengers    int    // <=0 defaults to 1
	Vehicles      int

	// Fallback display names used when the upstream row omits its own.
	OriginName string
	DestName   string
}

// rawTrip mirrors the upstream row shape. Older tenants return flat rows,
// newer ones itinerary segments; both appear in the wild.
type rawTrip struct {
	ID                 flexString   `json:"id"`
	Segments           []rawSegment `json:"segments"`
	ShipName           string       `json:"ship_name"`
	OriginName         string       `json:"origin_name"`
	DestinationName    string       `json:"destination_name"`
	TotalDepartureTime string       `json:"total_departure_time"`
	ScheduledDeparture string       `json:"scheduled_departure"`
	TotalArrivalTime   string       `json:"total_arrival_time"`
	ScheduledArrival   string       `json:"scheduled_arrival"`
	TotalDurationMins  int          `json:"total_duration_minutes"`
	Fare               float64      `json:"fare"`
	AvailableCapacity  int          `json:"available_capacity"`
}

type rawSegment struct {
	ShipName          string  `json:"ship_name"`
	Fare              float64 `json:"fare"`
	AvailableCapacity int     `json:"available_capacity"`
}

// flexString accepts JSON strings and numbers alike; some tenants send
// numeric trip ids.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
