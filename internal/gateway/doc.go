// Package gateway mediates access to the upstream Spotify player API behind
// a single normalized, cached status endpoint.
//
// # Service
//
// [Service] owns a single-slot response cache and answers [Service.Status]
// from it until the slot expires. On a miss it asks the upstream for the
// current playback state; when something is playing it builds a live status,
// otherwise it falls back to the most recent listen with a human-relative
// timestamp ("5 minutes ago"), and finally to an empty "no activity" status.
// Each branch caches with its own TTL (3s playing, 9s recent, 15s empty) to
// trade freshness against upstream call volume.
//
// Upstream and credential failures never escape Status: they collapse into a
// safe "temporarily unavailable" status so the HTTP endpoint stays healthy
// once reachable. Error results are not cached; the next call retries.
//
// Concurrent callers hitting an expired slot may each trigger an upstream
// call. There is deliberately no single-flight gate: the TTLs are short and
// the data is not critical.
//
// # HTTP Surface
//
// [StatusHandler] serves GET /api/status with a {success, data, timestamp}
// envelope and short public cache headers (max-age=3,
// stale-while-revalidate=10) so edge caches absorb repeat polling from many
// widget visitors.
package gateway
