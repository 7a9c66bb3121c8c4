package pkg

// Route paths shared by the router and its tests.
const (
	// BasePath prefixes every versioned route.
	BasePath = "/api/v1"

	// HealthCheckPath answers a trivial pong.
	HealthCheckPath = BasePath + "/ping"

	// LivenessPath and ReadinessPath are the unversioned probes.
	LivenessPath  = "/healthz"
	ReadinessPath = "/readyz"
)

// Tenant resolution failure, shared by the tenant middleware and the handlers.
const (
	CodeUnauthorized  = "unauthorized"
	MsgTenantNotFound = "Unauthorized: tenant not found"
)
