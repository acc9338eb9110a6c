package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func sampleRoutes() []Route {
	return []Route{
		{ID: 1, SrcPortCode: "BAT", SrcPortID: 10, SrcPortName: "Batangas", DestPortCode: "CAL", DestPortID: 20, DestPortName: "Calapan"},
		{ID: 2, SrcPortCode: "BAT", SrcPortID: 10, SrcPortName: "Batangas", DestPortCode: "PGA", DestPortID: 30, DestPortName: "Puerto Galera"},
		{ID: 3, SrcPortCode: "CAL", SrcPortID: 20, SrcPortName: "Calapan", DestPortCode: "BAT", DestPortID: 10, DestPortName: "Batangas"},
		// Duplicate origin under a different spelling; first occurrence wins.
		{ID: 4, SrcPortCode: "BAT", SrcPortID: 10, SrcPortName: "Batangas Pier", DestPortCode: "CAL", DestPortID: 20, DestPortName: "Calapan"},
		{ID: 5, SrcPortCode: "TST", SrcPortID: 40, SrcPortName: "Test Harbor", DestPortCode: "CAL", DestPortID: 20, DestPortName: "Calapan"},
		{ID: 6, SrcPortCode: "ORP", SrcPortID: 50, SrcPortName: "Orphan", DestPortCode: "DMO", DestPortID: 60, DestPortName: "Demo Island"},
	}
}

func TestIsRealPort(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Batangas", true},
		{"Puerto Galera", true},
		{"Test Harbor", false},
		{"HOGWARTS BAY", false},
		{"Sample Port", false},
		{"Neverland", false},
		{"qwerty", false},
	}
	for _, tc := range cases {
		if got := IsRealPort(tc.name); got != tc.want {
			t.Errorf("IsRealPort(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOriginPorts(t *testing.T) {
	ports := OriginPorts(sampleRoutes(), nil)

	// Test Harbor filtered, duplicate BAT collapsed. Orphan's only destination
	// is a demo port, so it has nowhere real to go and is dropped.
	if len(ports) != 2 {
		t.Fatalf("ports = %+v", ports)
	}
	if ports[0].Name != "Batangas" || ports[1].Name != "Calapan" {
		t.Errorf("order = %q, %q", ports[0].Name, ports[1].Name)
	}
}

func TestOriginPortsExclusion(t *testing.T) {
	excluded := map[string]struct{}{"BAT": {}}
	ports := OriginPorts(sampleRoutes(), excluded)
	if len(ports) != 1 || ports[0].Code != "CAL" {
		t.Fatalf("ports = %+v", ports)
	}
}

func TestDestinationsForOrigin(t *testing.T) {
	dests := DestinationsForOrigin(sampleRoutes(), "BAT")
	if len(dests) != 2 {
		t.Fatalf("dests = %+v", dests)
	}
	if dests[0].Name != "Calapan" || dests[1].Name != "Puerto Galera" {
		t.Errorf("order = %q, %q", dests[0].Name, dests[1].Name)
	}
	if dests := DestinationsForOrigin(sampleRoutes(), "ORP"); len(dests) != 0 {
		t.Errorf("demo destination not filtered: %+v", dests)
	}
}

func TestFindRoute(t *testing.T) {
	r, ok := FindRoute(sampleRoutes(), "BAT", "CAL")
	if !ok || r.ID != 1 {
		t.Fatalf("route = %+v, ok = %v", r, ok)
	}
	if _, ok := FindRoute(sampleRoutes(), "CAL", "PGA"); ok {
		t.Error("found a route that does not exist")
	}
}

func TestClientFetchRoutesEnvelope(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"wrapped", `{"data":[{"id":1,"src_port_code":"BAT","src_port_name":"Batangas","dest_port_code":"CAL","dest_port_name":"Calapan"}]}`},
		{"bare", `[{"id":1,"src_port_code":"BAT","src_port_name":"Batangas","dest_port_code":"CAL","dest_port_name":"Calapan"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("tenantId"); got != "7" {
					t.Errorf("tenantId = %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			routes, err := NewClient(srv.URL).FetchRoutes(context.Background(), 7)
			if err != nil {
				t.Fatalf("FetchRoutes: %v", err)
			}
			if len(routes) != 1 || routes[0].SrcPortCode != "BAT" {
				t.Errorf("routes = %+v", routes)
			}
		})
	}
}

func TestServiceRoutesWithoutCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[{"id":1,"src_port_code":"BAT","src_port_name":"Batangas","dest_port_code":"CAL","dest_port_name":"Calapan"}]`))
	}))
	defer srv.Close()

	svc := NewService(NewClient(srv.URL), nil, 0, zap.NewNop())
	for i := 0; i < 2; i++ {
		routes, err := svc.Routes(context.Background(), 7)
		if err != nil {
			t.Fatalf("Routes: %v", err)
		}
		if len(routes) != 1 {
			t.Fatalf("routes = %+v", routes)
		}
	}
	// No cache configured, so every call hits the upstream.
	if calls != 2 {
		t.Errorf("upstream calls = %d", calls)
	}
}

func TestServiceRoutesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewService(NewClient(srv.URL), nil, 0, zap.NewNop()).Routes(context.Background(), 7); err == nil {
		t.Fatal("expected error from failing upstream")
	}
}
