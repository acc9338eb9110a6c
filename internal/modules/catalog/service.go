// README: Route catalog service; cached per-tenant loads plus pure port derivations.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// testIndicators mark placeholder ports that leak from staging tenants;
// any name containing one of these (case-insensitively) is hidden.
var testIndicators = []string{
	"test", "fake", "sample", "demo", "xxx", "asdf", "qwerty",
	"heaven", "hell", "neverland", "hogwarts",
}

// IsRealPort reports whether the port name looks like a bookable port.
func IsRealPort(name string) bool {
	lower := strings.ToLower(name)
	return !lo.SomeBy(testIndicators, func(t string) bool {
		return strings.Contains(lower, t)
	})
}

// OriginPorts returns the unique, real, reachable origin ports of the route
// set, minus excluded codes, sorted by name. First occurrence wins when the
// same code appears with different spellings.
func OriginPorts(routes []Route, excludedCodes map[string]struct{}) []Port {
	ports := lo.FilterMap(routes, func(r Route, _ int) (Port, bool) {
		if !IsRealPort(r.SrcPortName) {
			return Port{}, false
		}
		return Port{Code: r.SrcPortCode, Name: r.SrcPortName, ID: r.SrcPortID}, true
	})
	ports = lo.UniqBy(ports, func(p Port) string { return p.Code })
	ports = lo.Filter(ports, func(p Port, _ int) bool {
		if _, excluded := excludedCodes[p.Code]; excluded {
			return false
		}
		return len(DestinationsForOrigin(routes, p.Code)) > 0
	})
	sortByName(ports)
	return ports
}

// DestinationsForOrigin returns the unique real destination ports reachable
// from originCode, sorted by name.
func DestinationsForOrigin(routes []Route, originCode string) []Port {
	ports := lo.FilterMap(routes, func(r Route, _ int) (Port, bool) {
		if r.SrcPortCode != originCode || !IsRealPort(r.DestPortName) {
			return Port{}, false
		}
		return Port{Code: r.DestPortCode, Name: r.DestPortName, ID: r.DestPortID}, true
	})
	ports = lo.UniqBy(ports, func(p Port) string { return p.Code })
	sortByName(ports)
	return ports
}

// FindRoute returns the first route matching both port codes.
func FindRoute(routes []Route, originCode, destCode string) (Route, bool) {
	return lo.Find(routes, func(r Route) bool {
		return r.SrcPortCode == originCode && r.DestPortCode == destCode
	})
}

func sortByName(ports []Port) {
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
}

// Service loads tenant route sets with a Redis read-through cache in front of
// the upstream API. Cache problems fall back to a direct fetch.
type Service struct {
	client *Client
	cache  *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewService builds a Service. cache may be nil to disable caching.
func NewService(client *Client, cache *redis.Client, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{client: client, cache: cache, ttl: ttl, log: log}
}

func cacheKey(tenantID int64) string {
	return fmt.Sprintf("catalog:routes:%d", tenantID)
}

// Routes returns the tenant's route list, consulting the cache first.
func (s *Service) Routes(ctx context.Context, tenantID int64) ([]Route, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey(tenantID)).Bytes()
		if err == nil {
			var routes []Route
			if err := json.Unmarshal(raw, &routes); err == nil {
				return routes, nil
			}
			// Corrupt entry; fall through to a fresh fetch.
		} else if err != redis.Nil {
			s.log.Warn("catalog cache read failed", zap.Int64("tenant", tenantID), zap.Error(err))
		}
	}

	routes, err := s.client.FetchRoutes(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(routes); err == nil {
			if err := s.cache.Set(ctx, cacheKey(tenantID), raw, s.ttl).Err(); err != nil {
				s.log.Warn("catalog cache write failed", zap.Int64("tenant", tenantID), zap.Error(err))
			}
		}
	}
	return routes, nil
}
