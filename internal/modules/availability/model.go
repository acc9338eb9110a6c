// README: Availability models (candidate departure dates per route).
package availability

// DateOption is one candidate departure date for a route.
type DateOption struct {
	// Date is the machine value, YYYY-MM-DD.
	Date string `json:"date"`

	// Label is the human form, e.g. "Sat, Mar 14".
	Label string `json:"label"`

	TripCount int `json:"tripCount"`
}
