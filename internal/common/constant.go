package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"

	// BearerScheme prefixes the credential in the Authorization header.
	BearerScheme = "Bearer"
)

// Keys of the local metadata table.
const (
	MetadataKeyToken = "token"
	MetadataKeySalt  = "salt"
)
