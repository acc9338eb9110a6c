package aiusage

import "context"

// Service orchestrates assistant token-usage logic.
type Service struct {
	store *Store
}

// NewService creates a Service backed by the given Store.
// A nil store disables metering; UseToken then always succeeds.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// UseToken deducts one token from the tenant's monthly allowance.
// If the tenant row does not exist yet it is initialised and the token is immediately consumed.
// Returns ErrInsufficientTokens when the quota for the current month is exhausted.
func (s *Service) UseToken(ctx context.Context, tenantID int64) error {
	if s.store == nil {
		return nil
	}

	err := s.store.UseToken(ctx, tenantID)
	if err != ErrInsufficientTokens {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureTenant(ctx, tenantID); initErr != nil {
		return initErr
	}
	return s.store.UseToken(ctx, tenantID)
}
