// README: Dialogue models; steps, turns, quick replies, and the booking accumulator.
package dialogue

import (
	"fmt"
	"strings"

	"ferrychat/internal/modules/catalog"
	"ferrychat/internal/modules/search"
)

// Step is the controller's current position in the guided flow.
type Step string

const (
	StepOrigin      Step = "origin"
	StepDestination Step = "destination"
	StepPassengers  Step = "passengers"
	StepVehicles    Step = "vehicles"
	StepDate        Step = "date"
	StepComplete    Step = "complete"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// QuickReply is a selectable option presented alongside free-text input.
// Value is a machine token (colon-delimited namespace) or a control word.
type QuickReply struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Turn is one entry of the visible transcript. Turns are append-only; once a
// turn's options have been acted on they are cleared so a stale choice cannot
// fire twice, but the turn itself stays in history.
type Turn struct {
	ID      string        `json:"id"`
	Role    Role          `json:"role"`
	Content string        `json:"content"`
	Options []QuickReply  `json:"options,omitempty"`
	Trips   []search.Trip `json:"tripResults,omitempty"`
}

// BookingContext accumulates the traveler's answers across steps. It grows
// monotonically and is emptied only by "start over".
type BookingContext struct {
	Origin             *catalog.Port  `json:"originPort,omitempty"`
	Destination        *catalog.Port  `json:"destinationPort,omitempty"`
	DepartureDate      string         `json:"departureDate,omitempty"`
	DepartureDateLabel string         `json:"departureDateLabel,omitempty"`
	Passengers         int            `json:"passengerCount,omitempty"`
	Vehicles           *int           `json:"vehicleCount,omitempty"`
	Route              *catalog.Route `json:"selectedRoute,omitempty"`
}

// Summary renders the machine-readable context line carried to the fallback,
// e.g. "[CONTEXT: Origin: Batangas, Passengers: 2]". Empty when nothing is set.
func (b BookingContext) Summary() string {
	var parts []string
	if b.Origin != nil {
		parts = append(parts, "Origin: "+b.Origin.Name)
	}
	if b.Destination != nil {
		parts = append(parts, "Destination: "+b.Destination.Name)
	}
	if b.DepartureDate != "" {
		parts = append(parts, "Date: "+b.DepartureDate)
	}
	if b.Passengers > 0 {
		parts = append(parts, fmt.Sprintf("Passengers: %d", b.Passengers))
	}
	if len(parts) == 0 {
		return ""
	}
	return "[CONTEXT: " + strings.Join(parts, ", ") + "]"
}

// Hints exposes the same facts as a flat map for providers that want
// structured context instead of the summary line.
func (b BookingContext) Hints() map[string]string {
	hints := map[string]string{}
	if b.Origin != nil {
		hints["origin"] = b.Origin.Name
	}
	if b.Destination != nil {
		hints["destination"] = b.Destination.Name
	}
	if b.DepartureDate != "" {
		hints["date"] = b.DepartureDate
	}
	if b.Passengers > 0 {
		hints["passengers"] = fmt.Sprintf("%d", b.Passengers)
	}
	if b.Vehicles != nil {
		hints["vehicles"] = fmt.Sprintf("%d", *b.Vehicles)
	}
	return hints
}

// Snapshot is the view of a session handed to the presentation layer.
type Snapshot struct {
	ID             string         `json:"id"`
	TenantID       int64          `json:"tenantId"`
	Step           Step           `json:"step"`
	Context        BookingContext `json:"context"`
	Turns          []Turn         `json:"turns"`
	Loading        bool           `json:"loading"`
	Searching      bool           `json:"searching"`
	ShowDatePicker bool           `json:"showDatePicker"`
	DisplayName    string         `json:"displayName"`
}
