// Package server provides HTTP routing, middleware, and OAuth callback
// handling for the gateway and the CLI auth flow.
//
// # Router Infrastructure
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] internally with method filtering.
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib
// handler interface and adds Routes, letting a handler encapsulate its own
// route definitions (the gateway's status handler registers /api/status this
// way).
//
// # Middleware
//
// [RequestLogger] tags every request with a generated request id and logs
// method, path, status, and duration. [RateLimit] applies a per-client-IP
// token bucket (golang.org/x/time/rate) in front of the status endpoint so a
// burst of widget visitors cannot fan out into the upstream API.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback: state
// validation (CSRF protection), code exchange, and delivery of the resulting
// token through a channel. It processes only one callback per flow. The auth
// command starts a temporary server with this handler, waits on the channel,
// and shuts the server down.
package server
