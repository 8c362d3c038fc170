package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"

	// Context keys
	ContextKeyRequestID = "request_id"
	ContextKeyActor     = "actor"

	// Database table names
	TableCredentials  = "guest_credentials"
	TableAccessEvents = "access_events"
	TableSponsors     = "sponsors"
)
