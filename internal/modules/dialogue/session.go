// README: In-memory session store and per-session state with its locking rules.
package dialogue

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"ferrychat/internal/modules/agentcfg"
	"ferrychat/internal/modules/catalog"
	"ferrychat/internal/modules/search"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrBusy     = errors.New("session is busy")
)

// Session holds one conversation. All fields below mu are guarded by it; the
// service releases the lock around remote calls while loading or searching is
// set, so concurrent snapshot reads observe the in-flight state and concurrent
// actions are rejected with ErrBusy.
type Session struct {
	ID       string
	TenantID int64

	mu sync.Mutex

	step    Step
	booking BookingContext
	turns   []Turn
	routes  []catalog.Route
	agent   agentcfg.Config

	// pendingRoute remembers the chosen route through date re-selection after
	// an empty or failed search. Only "start over" clears it.
	pendingRoute *catalog.Route

	// noTripOrigins collects origins that probed dead this session. It survives
	// "start over" so a known-dead port is not offered again.
	noTripOrigins map[string]struct{}

	loading        bool
	searching      bool
	showDatePicker bool

	// inFlight is the transient "searching" turn shown at the tail of the
	// transcript while a trip search runs. It never enters turns.
	inFlight *Turn
}

func (s *Session) busyLocked() bool {
	return s.loading || s.searching
}

// runSearching releases the session lock around fn while the searching flag
// holds off other actions. The lock is held again on return.
func (s *Session) runSearching(fn func()) {
	s.searching = true
	s.mu.Unlock()
	fn()
	s.mu.Lock()
	s.searching = false
}

// runLoading is runSearching for the free-form assistant call.
func (s *Session) runLoading(fn func()) {
	s.loading = true
	s.mu.Unlock()
	fn()
	s.mu.Lock()
	s.loading = false
}

func (s *Session) addTurnLocked(role Role, content string, options []QuickReply, trips []search.Trip) {
	s.turns = append(s.turns, Turn{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Options: options,
		Trips:   trips,
	})
}

func (s *Session) addUserLocked(content string) {
	s.addTurnLocked(RoleUser, content, nil, nil)
}

func (s *Session) addAssistantLocked(content string, options []QuickReply, trips []search.Trip) {
	s.addTurnLocked(RoleAssistant, content, options, trips)
}

func (s *Session) clearOptionsLocked() {
	for i := range s.turns {
		s.turns[i].Options = nil
	}
}

func (s *Session) activeRouteLocked() *catalog.Route {
	if s.booking.Route != nil {
		return s.booking.Route
	}
	return s.pendingRoute
}

func (s *Session) snapshotLocked() Snapshot {
	turns := make([]Turn, len(s.turns), len(s.turns)+1)
	copy(turns, s.turns)
	if s.inFlight != nil {
		turns = append(turns, *s.inFlight)
	}
	return Snapshot{
		ID:             s.ID,
		TenantID:       s.TenantID,
		Step:           s.step,
		Context:        s.booking,
		Turns:          turns,
		Loading:        s.loading,
		Searching:      s.searching,
		ShowDatePicker: s.showDatePicker,
		DisplayName:    s.agent.DisplayName,
	}
}

// Manager keeps live sessions in memory keyed by id.
type Manager struct {
	mu   sync.RWMutex
	byID map[string]*Session
}

func NewManager() *Manager {
	return &Manager{byID: map[string]*Session{}}
}

func (m *Manager) Create(tenantID int64, routes []catalog.Route, agent agentcfg.Config) *Session {
	sess := &Session{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		step:          StepOrigin,
		routes:        routes,
		agent:         agent,
		noTripOrigins: map[string]struct{}{},
	}
	m.mu.Lock()
	m.byID[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.byID[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()
}
