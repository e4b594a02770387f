package constants

// Static route constants
const (
	APIRoute    = "/api"
	APIBasePath = "/api/v1"
	DocsRoute   = "/docs/api/"
	// OpenAPI document path relative to the project root
	OpenAPIFile = "public/docs/v1/openapi.yml"
)
