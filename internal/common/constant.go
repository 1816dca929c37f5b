package common

// AuthorizationHeaderName is the HTTP header carrying the bearer credential.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the expected scheme prefix of the authorization header.
const BearerPrefix = "Bearer "
