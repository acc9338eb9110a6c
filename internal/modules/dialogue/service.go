// README: Dialogue controller; drives the guided booking flow step by step.
package dialogue

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ferrychat/internal/ai"
	"ferrychat/internal/modules/agentcfg"
	"ferrychat/internal/modules/availability"
	"ferrychat/internal/modules/catalog"
	"ferrychat/internal/modules/search"
)

const (
	maxFreeTextPassengers = 20
	maxFreeTextVehicles   = 10

	dateStepLimit     = 7
	recoveryDateLimit = 5
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Catalog supplies tenant routes. Failures degrade the session to free-form
// conversation instead of failing session creation.
type Catalog interface {
	Routes(ctx context.Context, tenantID int64) ([]catalog.Route, error)
}

// Prober answers availability questions against the trips upstream.
type Prober interface {
	AvailableDates(ctx context.Context, originCode, destCode string, limit int) ([]availability.DateOption, error)
	ProbeDestinations(ctx context.Context, originCode string, dests []catalog.Port) []catalog.Port
}

// Searcher runs the final trip search.
type Searcher interface {
	Search(ctx context.Context, q search.Query) ([]search.Trip, error)
}

// Personalizer loads the tenant's agent identity. It never fails; defaults
// apply when the config upstream is down.
type Personalizer interface {
	Load(ctx context.Context, tenantID int64) agentcfg.Config
}

// Assistant answers free-form input that the guided flow cannot handle.
type Assistant interface {
	Ask(ctx context.Context, tenantID int64, conv ai.Conversation) string
}

type Service struct {
	sessions  *Manager
	catalog   Catalog
	prober    Prober
	searcher  Searcher
	personal  Personalizer
	assistant Assistant
	log       *zap.Logger

	now func() time.Time
}

func New(sessions *Manager, cat Catalog, prober Prober, searcher Searcher, personal Personalizer, assistant Assistant, log *zap.Logger) *Service {
	return &Service{
		sessions:  sessions,
		catalog:   cat,
		prober:    prober,
		searcher:  searcher,
		personal:  personal,
		assistant: assistant,
		log:       log,
		now:       time.Now,
	}
}

// SetNowForTest overrides the clock used for the "tomorrow" shortcut.
func (s *Service) SetNowForTest(now func() time.Time) {
	s.now = now
}

// StartSession creates a session, greets the traveler, and offers the origin
// ports. A catalog failure is logged and leaves the options empty; the session
// still works through the free-form assistant.
func (s *Service) StartSession(ctx context.Context, tenantID int64) (Snapshot, error) {
	agent := s.personal.Load(ctx, tenantID)
	routes, err := s.catalog.Routes(ctx, tenantID)
	if err != nil {
		s.log.Warn("route catalog unavailable", zap.Int64("tenant_id", tenantID), zap.Error(err))
		routes = nil
	}
	sess := s.sessions.Create(tenantID, routes, agent)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.greetLocked(sess)
	return sess.snapshotLocked(), nil
}

// GetSession returns the current view of a session.
func (s *Service) GetSession(id string) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(), nil
}

// SubmitText handles free-text input. On the passengers and vehicles steps a
// bare in-range integer is treated as if the matching option had been tapped;
// everything else goes to the assistant.
func (s *Service) SubmitText(ctx context.Context, id, text string) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.busyLocked() {
		return Snapshot{}, ErrBusy
	}
	txt := strings.TrimSpace(text)
	if txt == "" {
		return sess.snapshotLocked(), nil
	}
	if sess.step == StepPassengers {
		if n, err := strconv.Atoi(txt); err == nil && n >= 1 && n <= maxFreeTextPassengers {
			s.applyQuickReply(ctx, sess, fmt.Sprintf("passengers:%d", n), passengerLabel(n))
			return sess.snapshotLocked(), nil
		}
	}
	if sess.step == StepVehicles {
		if n, err := strconv.Atoi(txt); err == nil && n >= 0 && n <= maxFreeTextVehicles {
			s.applyQuickReply(ctx, sess, fmt.Sprintf("vehicles:%d", n), vehicleLabel(n))
			return sess.snapshotLocked(), nil
		}
	}
	s.askAssistant(ctx, sess, txt)
	return sess.snapshotLocked(), nil
}

// SelectQuickReply handles a tapped option.
func (s *Service) SelectQuickReply(ctx context.Context, id, value, label string) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.busyLocked() {
		return Snapshot{}, ErrBusy
	}
	s.applyQuickReply(ctx, sess, value, label)
	return sess.snapshotLocked(), nil
}

// SelectDate handles a date chosen from the picker.
func (s *Service) SelectDate(ctx context.Context, id string, date time.Time, label string) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.busyLocked() {
		return Snapshot{}, ErrBusy
	}
	if label == "" {
		label = date.Format("Mon, Jan 2")
	}
	s.completeWithDate(ctx, sess, date, label)
	return sess.snapshotLocked(), nil
}

// applyQuickReply dispatches a quick-reply value. Called with the session lock
// held; every branch returns with it held.
func (s *Service) applyQuickReply(ctx context.Context, sess *Session, value, label string) {
	lower := strings.ToLower(value)
	if strings.Contains(lower, "start over") {
		s.resetLocked(sess)
		s.greetLocked(sess)
		return
	}

	sess.clearOptionsLocked()

	switch {
	case value == "choose_origin":
		sess.addUserLocked("Choose another port")
		sess.addAssistantLocked("Where are you traveling from?", s.originOptionsLocked(sess), nil)
	case strings.HasPrefix(value, "origin:"):
		s.chooseOrigin(ctx, sess, value, label)
	case strings.HasPrefix(value, "dest:"):
		s.chooseDestination(sess, value)
	case strings.HasPrefix(value, "passengers:"):
		s.choosePassengers(ctx, sess, value, label)
	case strings.HasPrefix(value, "vehicles:"):
		s.chooseVehicles(ctx, sess, value, label)
	case value == "pick_date":
		sess.showDatePicker = true
	case value == "tomorrow":
		d := s.now().AddDate(0, 0, 1)
		s.completeWithDate(ctx, sess, d, "Tomorrow ("+d.Format("Mon, Jan 2")+")")
	case isoDateRe.MatchString(value):
		d, err := time.Parse("2006-01-02", value)
		if err != nil {
			s.askAssistant(ctx, sess, label)
			return
		}
		s.completeWithDate(ctx, sess, d, d.Format("Mon, Jan 2"))
	case strings.Contains(lower, "different date"):
		sess.showDatePicker = true
		sess.addUserLocked(label)
		sess.addAssistantLocked("Select a new date:", nil, nil)
	default:
		s.askAssistant(ctx, sess, label)
	}
}

func (s *Service) greetLocked(sess *Session) {
	welcome := agentcfg.TrimWelcome(sess.agent.WelcomeMessage)
	sess.addAssistantLocked(welcome+"\n\nWhere are you traveling from?", s.originOptionsLocked(sess), nil)
}

func (s *Service) originOptionsLocked(sess *Session) []QuickReply {
	return originOptions(catalog.OriginPorts(sess.routes, sess.noTripOrigins))
}

// resetLocked wipes everything but the dead-origin set. A port that probed
// empty stays excluded for the life of the session.
func (s *Service) resetLocked(sess *Session) {
	sess.step = StepOrigin
	sess.booking = BookingContext{}
	sess.turns = nil
	sess.pendingRoute = nil
	sess.showDatePicker = false
	sess.inFlight = nil
}

func (s *Service) chooseOrigin(ctx context.Context, sess *Session, value, label string) {
	port, ok := parsePortToken(value)
	if !ok {
		s.askAssistant(ctx, sess, label)
		return
	}
	sess.booking.Origin = &port
	sess.addUserLocked("From " + port.Name)
	sess.step = StepDestination

	dests := catalog.DestinationsForOrigin(sess.routes, port.Code)
	var reachable []catalog.Port
	sess.runSearching(func() {
		reachable = s.prober.ProbeDestinations(ctx, port.Code, dests)
	})
	if len(reachable) == 0 {
		sess.noTripOrigins[port.Code] = struct{}{}
		sess.addAssistantLocked(
			fmt.Sprintf("No upcoming trips from **%s**. Try another port?", port.Name),
			[]QuickReply{{Label: "📍 Choose another port", Value: "choose_origin"}},
			nil,
		)
		return
	}
	sess.addAssistantLocked(
		fmt.Sprintf("Traveling from **%s** 📍\n\nWhere would you like to go?", port.Name),
		destinationOptions(reachable),
		nil,
	)
}

func (s *Service) chooseDestination(sess *Session, value string) {
	port, ok := parsePortToken(value)
	if !ok {
		return
	}
	originCode, originName := "", ""
	if sess.booking.Origin != nil {
		originCode = sess.booking.Origin.Code
		originName = sess.booking.Origin.Name
	}
	if route, found := catalog.FindRoute(sess.routes, originCode, port.Code); found {
		r := route
		sess.pendingRoute = &r
		sess.booking.Route = &r
		sess.booking.Destination = &port
	}
	sess.addUserLocked("To " + port.Name)
	sess.addAssistantLocked(
		fmt.Sprintf("%s → **%s** 🛳️\n\nHow many passengers?", originName, port.Name),
		passengerOptions(),
		nil,
	)
	sess.step = StepPassengers
}

func (s *Service) choosePassengers(ctx context.Context, sess *Session, value, label string) {
	n, err := strconv.Atoi(strings.TrimPrefix(value, "passengers:"))
	if err != nil {
		s.askAssistant(ctx, sess, label)
		return
	}
	sess.booking.Passengers = n
	sess.addUserLocked(passengerLabel(n))
	sess.addAssistantLocked("Bringing any vehicles?", vehicleOptions(), nil)
	sess.step = StepVehicles
}

func (s *Service) chooseVehicles(ctx context.Context, sess *Session, value, label string) {
	n, err := strconv.Atoi(strings.TrimPrefix(value, "vehicles:"))
	if err != nil {
		s.askAssistant(ctx, sess, label)
		return
	}
	sess.booking.Vehicles = &n
	sess.addUserLocked(vehicleLabel(n))
	sess.step = StepDate

	route := sess.activeRouteLocked()
	if route == nil {
		sess.addAssistantLocked("When would you like to travel?",
			[]QuickReply{{Label: "🗓️ Pick a date", Value: "pick_date"}}, nil)
		return
	}
	var dates []availability.DateOption
	var derr error
	sess.runSearching(func() {
		dates, derr = s.prober.AvailableDates(ctx, route.SrcPortCode, route.DestPortCode, dateStepLimit)
	})
	switch {
	case derr != nil:
		s.log.Warn("available dates fetch failed", zap.String("route", route.SrcPortCode+"-"+route.DestPortCode), zap.Error(derr))
		sess.addAssistantLocked("When would you like to travel?",
			[]QuickReply{{Label: "🗓️ Pick a date", Value: "pick_date"}}, nil)
	case len(dates) > 0:
		opts := append(dateOptions(dates), QuickReply{Label: "🗓️ Pick another date", Value: "pick_date"})
		sess.addAssistantLocked("Dates with available trips:", opts, nil)
	default:
		sess.addAssistantLocked("No upcoming trips for this route yet.",
			[]QuickReply{{Label: "🔄 Different route", Value: "start over"}}, nil)
	}
}

// completeWithDate records the travel date and runs the trip search. The
// chosen route is pinned to pendingRoute so later date retries survive any
// context edits.
func (s *Service) completeWithDate(ctx context.Context, sess *Session, date time.Time, label string) {
	sess.showDatePicker = false
	dateStr := date.Format("2006-01-02")
	sess.booking.DepartureDate = dateStr
	sess.booking.DepartureDateLabel = label
	sess.addUserLocked(label)
	sess.step = StepComplete

	route := sess.activeRouteLocked()
	if route == nil {
		sess.addAssistantLocked("No trips found. Try a different route?",
			[]QuickReply{{Label: "🔄 Different route", Value: "start over"}}, nil)
		return
	}
	if sess.pendingRoute == nil {
		sess.pendingRoute = route
	}

	q := search.Query{
		OriginCode:    route.SrcPortCode,
		DestCode:      route.DestPortCode,
		DepartureDate: dateStr,
		Passengers:    sess.booking.Passengers,
		OriginName:    route.SrcPortName,
		DestName:      route.DestPortName,
	}
	if sess.booking.Vehicles != nil {
		q.Vehicles = *sess.booking.Vehicles
	}

	sess.inFlight = &Turn{
		ID:      "searching",
		Role:    RoleAssistant,
		Content: "🔍 Searching for available trips...",
	}
	var trips []search.Trip
	var serr error
	sess.runSearching(func() {
		trips, serr = s.searcher.Search(ctx, q)
	})
	sess.inFlight = nil

	switch {
	case serr != nil:
		s.log.Warn("trip search failed", zap.String("route", q.OriginCode+"-"+q.DestCode), zap.Error(serr))
		sess.addAssistantLocked("Sorry, couldn't search right now. Please try again!",
			[]QuickReply{
				{Label: "🔄 Try again", Value: "try again"},
				{Label: "🏠 Start over", Value: "start over"},
			}, nil)
	case len(trips) > 0:
		sess.addAssistantLocked(
			fmt.Sprintf("I found %d trip%s for you! 🎉", len(trips), plural(len(trips))),
			[]QuickReply{
				{Label: "🔄 Different date", Value: "try a different date"},
				{Label: "🏠 Start over", Value: "start over"},
			}, trips)
	default:
		s.recoverNoTrips(ctx, sess, route)
	}
}

// recoverNoTrips offers nearby dates with availability after an empty search.
func (s *Service) recoverNoTrips(ctx context.Context, sess *Session, route *catalog.Route) {
	var alt []availability.DateOption
	sess.runSearching(func() {
		alt, _ = s.prober.AvailableDates(ctx, route.SrcPortCode, route.DestPortCode, recoveryDateLimit)
	})
	if len(alt) > 0 {
		opts := append(dateOptions(alt), QuickReply{Label: "🔄 Different route", Value: "start over"})
		sess.addAssistantLocked("No trips for that date. Here are dates with trips:", opts, nil)
		return
	}
	sess.addAssistantLocked("No trips found. Try a different route?",
		[]QuickReply{{Label: "🔄 Different route", Value: "start over"}}, nil)
}

// askAssistant routes unmatched input to the free-form assistant with the
// accumulated booking context attached.
func (s *Service) askAssistant(ctx context.Context, sess *Session, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	sess.clearOptionsLocked()
	sess.addUserLocked(text)

	conv := ai.Conversation{
		Messages: make([]ai.Message, 0, len(sess.turns)),
		Context:  sess.booking.Hints(),
	}
	for _, t := range sess.turns {
		conv.Messages = append(conv.Messages, ai.Message{Role: string(t.Role), Content: t.Content})
	}
	conv.ContextSummary = sess.booking.Summary()

	var reply string
	sess.runLoading(func() {
		reply = s.assistant.Ask(ctx, sess.TenantID, conv)
	})
	sess.addAssistantLocked(reply,
		[]QuickReply{{Label: "🏠 Start a new search", Value: "start over"}}, nil)
}

func parsePortToken(value string) (catalog.Port, bool) {
	parts := strings.SplitN(value, ":", 4)
	if len(parts) < 4 {
		return catalog.Port{}, false
	}
	id, _ := strconv.ParseInt(parts[3], 10, 64)
	return catalog.Port{Code: parts[1], Name: parts[2], ID: id}, true
}
