// README: Trip search gateway; runs the fully specified query and normalizes upstream rows.
package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	client *Client
	log    *zap.Logger
}

func NewService(client *Client, log *zap.Logger) *Service {
	return &Service{client: client, log: log}
}

// Search runs the query and returns canonical trip records. A transport or
// HTTP error is returned as-is (search failure); zero matching rows is a
// successful search with an empty result.
func (s *Service) Search(ctx context.Context, q Query) ([]Trip, error) {
	rows, err := s.client.FetchTrips(ctx, q)
	if err != nil {
		s.log.Warn("trip search failed",
			zap.String("origin", q.OriginCode), zap.String("dest", q.DestCode),
			zap.String("date", q.DepartureDate), zap.Error(err))
		return nil, err
	}

	trips := make([]Trip, 0, len(rows))
	for _, row := range rows {
		trips = append(trips, normalize(row, q))
	}
	return trips, nil
}

// normalize prefers the first itinerary segment's ship/fare/capacity, then the
// row's top-level fields, then literal defaults.
func normalize(row rawTrip, q Query) Trip {
	var seg rawSegment
	if len(row.Segments) > 0 {
		seg = row.Segments[0]
	}

	ship := firstNonEmpty(seg.ShipName, row.ShipName, "Unknown")

	id := string(row.ID)
	if id == "" {
		id = uuid.NewString()
	}

	duration := ""
	if row.TotalDurationMins > 0 {
		duration = fmt.Sprintf("%dh %dm", row.TotalDurationMins/60, row.TotalDurationMins%60)
	}

	price := seg.Fare
	if price == 0 {
		price = row.Fare
	}
	seats := seg.AvailableCapacity
	if seats == 0 {
		seats = row.AvailableCapacity
	}

	return Trip{
		ID:             id,
		ShippingLine:   ship,
		VesselName:     ship,
		SrcPort:        firstNonEmpty(row.OriginName, q.OriginName),
		DestPort:       firstNonEmpty(row.DestinationName, q.DestName),
		DepartureTime:  firstNonEmpty(row.TotalDepartureTime, row.ScheduledDeparture),
		ArrivalTime:    firstNonEmpty(row.TotalArrivalTime, row.ScheduledArrival),
		Duration:       duration,
		Price:          price,
		AvailableSeats: seats,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
