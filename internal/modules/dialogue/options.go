// README: Quick-reply builders; labels and value tokens for every step.
package dialogue

import (
	"fmt"

	"github.com/samber/lo"

	"ferrychat/internal/modules/availability"
	"ferrychat/internal/modules/catalog"
)

const (
	maxQuickReplyPassengers = 10
	maxQuickReplyVehicles   = 3
)

func portToken(prefix string, p catalog.Port) string {
	return fmt.Sprintf("%s:%s:%s:%d", prefix, p.Code, p.Name, p.ID)
}

func originOptions(ports []catalog.Port) []QuickReply {
	return lo.Map(ports, func(p catalog.Port, _ int) QuickReply {
		return QuickReply{Label: "📍 " + p.Name, Value: portToken("origin", p)}
	})
}

func destinationOptions(ports []catalog.Port) []QuickReply {
	return lo.Map(ports, func(p catalog.Port, _ int) QuickReply {
		return QuickReply{Label: "🏝️ " + p.Name, Value: portToken("dest", p)}
	})
}

func passengerOptions() []QuickReply {
	opts := make([]QuickReply, 0, maxQuickReplyPassengers)
	for n := 1; n <= maxQuickReplyPassengers; n++ {
		opts = append(opts, QuickReply{
			Label: "👤 " + passengerLabel(n),
			Value: fmt.Sprintf("passengers:%d", n),
		})
	}
	return opts
}

func vehicleOptions() []QuickReply {
	opts := make([]QuickReply, 0, maxQuickReplyVehicles+1)
	opts = append(opts, QuickReply{Label: "🚫 No vehicles", Value: "vehicles:0"})
	for n := 1; n <= maxQuickReplyVehicles; n++ {
		opts = append(opts, QuickReply{
			Label: "🚗 " + vehicleLabel(n),
			Value: fmt.Sprintf("vehicles:%d", n),
		})
	}
	return opts
}

func dateOptions(dates []availability.DateOption) []QuickReply {
	return lo.Map(dates, func(d availability.DateOption, _ int) QuickReply {
		return QuickReply{
			Label: fmt.Sprintf("📅 %s (%d trip%s)", d.Label, d.TripCount, plural(d.TripCount)),
			Value: d.Date,
		}
	})
}

func passengerLabel(n int) string {
	return fmt.Sprintf("%d passenger%s", n, plural(n))
}

func vehicleLabel(n int) string {
	if n == 0 {
		return "No vehicles"
	}
	return fmt.Sprintf("%d vehicle%s", n, plural(n))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
