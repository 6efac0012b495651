// Package spotify implements the upstream Spotify Web API client used by the
// gateway: the player endpoints and credential management.
//
// # Player Endpoints
//
// [Client.CurrentlyPlaying] and [Client.RecentlyPlayed] wrap the two player
// endpoints the gateway consumes. Spotify answers 204 when nothing is
// playing; the client maps that to a nil response rather than an error.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
//
// # Credentials
//
// [Credentials] owns the single live token for the process. It is lazily
// initialized from configuration (or a [TokenStore] snapshot from a previous
// run) on first use and refreshed in place through the [oauth2] refresh-token
// grant whenever the access token is missing or expired. If Spotify rotates
// the refresh token during a refresh, the rotated value replaces the old one
// and is persisted back to the store.
//
// # Error Handling
//
// Typed errors from the shared package:
//   - [shared.ErrNoRefreshToken] : no refresh token configured, refresh impossible
//   - [shared.ErrRefreshFailed] : the token endpoint rejected the exchange
//   - [shared.ErrUpstream] : non-2xx/204 player endpoint response
package spotify
