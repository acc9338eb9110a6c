// README: Availability prober; existence probes, date enumeration, and the per-destination fan-out.
package availability

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ferrychat/internal/modules/catalog"
)

type Service struct {
	client *Client
	log    *zap.Logger
}

func NewService(client *Client, log *zap.Logger) *Service {
	return &Service{client: client, log: log}
}

// HasUpcomingTrips is a lightweight existence probe (limit-1 date query).
func (s *Service) HasUpcomingTrips(ctx context.Context, originCode, destCode string) (bool, error) {
	dates, err := s.client.FetchAvailableDates(ctx, originCode, destCode, 1)
	if err != nil {
		return false, err
	}
	return len(dates) > 0, nil
}

// AvailableDates returns up to limit candidate dates for the route, each with
// a human label. Upstream dates may carry a time component; only the day part
// is kept.
func (s *Service) AvailableDates(ctx context.Context, originCode, destCode string, limit int) ([]DateOption, error) {
	raw, err := s.client.FetchAvailableDates(ctx, originCode, destCode, limit)
	if err != nil {
		return nil, err
	}

	opts := make([]DateOption, 0, len(raw))
	for _, d := range raw {
		day, _, _ := strings.Cut(d.Date, "T")
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			s.log.Warn("skipping unparseable available date",
				zap.String("date", d.Date), zap.String("origin", originCode), zap.String("dest", destCode))
			continue
		}
		opts = append(opts, DateOption{
			Date:      day,
			Label:     t.Format("Mon, Jan 2"),
			TripCount: d.TripCount,
		})
	}
	return opts, nil
}

// ProbeDestinations issues one existence probe per candidate destination
// concurrently and returns the destinations with at least one upcoming trip,
// sorted by name. A failed probe only removes its own destination; it never
// aborts the siblings.
func (s *Service) ProbeDestinations(ctx context.Context, originCode string, dests []catalog.Port) []catalog.Port {
	reachable := make([]bool, len(dests))

	var wg sync.WaitGroup
	for i, dest := range dests {
		wg.Add(1)
		go func(i int, dest catalog.Port) {
			defer wg.Done()
			ok, err := s.HasUpcomingTrips(ctx, originCode, dest.Code)
			if err != nil {
				s.log.Warn("destination probe failed",
					zap.String("origin", originCode), zap.String("dest", dest.Code), zap.Error(err))
				return
			}
			reachable[i] = ok
		}(i, dest)
	}
	wg.Wait()

	available := make([]catalog.Port, 0, len(dests))
	for i, ok := range reachable {
		if ok {
			available = append(available, dests[i])
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i].Name < available[j].Name })
	return available
}
