// README: Route catalog models (tenant routes and the ports derived from them).
package catalog

// Route is a directed origin→destination pair offered by a tenant.
// Routes are immutable once loaded; the conversation layer never mutates them.
type Route struct {
	ID            int64  `json:"id"`
	TenantRouteID int64  `json:"tenant_route_id"`
	SrcPortCode   string `json:"src_port_code"`
	SrcPortID     int64  `json:"src_port_id"`
	SrcPortName   string `json:"src_port_name"`
	DestPortCode  string `json:"dest_port_code"`
	DestPortID    int64  `json:"dest_port_id"`
	DestPortName  string `json:"dest_port_name"`
}

// Port is derived from routes, never stored on its own.
type Port struct {
	Code string `json:"code"`
	Name string `json:"name"`
	ID   int64  `json:"id"`
}
