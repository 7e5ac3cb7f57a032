package common

import "time"

// API
const (
	APIV1 = "/v1"

	DefaultSuccessMessage = "request processed successfully"
	DefaultErrorMessage   = "an error occurred while processing the request"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Authentication
const (
	AccessTokenCookie   = "accessToken"
	RefreshTokenCookie  = "refreshToken"
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "

	ClaimEmail    = "email"
	ClaimName     = "name"
	ClaimRole     = "role"
	ClaimTenantID = "tenantId"
	ClaimType     = "type"

	DefaultRole   = "USER"
	DefaultIssuer = "plate-server"

	DefaultAccessTokenExpiration  = 15 * time.Minute
	DefaultRefreshTokenExpiration = 7 * 24 * time.Hour
)

// API documentation metadata shared by the route annotations and the doc endpoint.
const (
	DocTitle         = "Plate Server"
	DocVersion       = "1.0.0"
	DocBearerScheme  = "bearerAuth"
	DocContactName   = "Plate Team"
	DocContactEmail  = "support@plate.org"
	DocTagAuth       = "auth"
	DocTagUsers      = "users"
	DocTagOperations = "operations"

	SystemActor = "system"
)
