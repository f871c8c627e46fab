package constants

// Route prefixes shared by the router, the swagger middleware and the docs.
const (
	APIRoute     = "/api"
	APIV1Route   = "/v1"
	DocsRoute    = "/docs/api/"
	DocsVersion  = "v1"
	HealthRoute  = "/health"
	MetricsRoute = "/metrics"
	MonitorRoute = "/monitor"
)
