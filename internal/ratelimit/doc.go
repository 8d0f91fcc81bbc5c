// Package ratelimit guards endpoints from abusive clients.
//
//   - Limiter: fixed-window counter per client identifier (booking creation).
//   - Throttle: token bucket per client identifier (availability reads),
//     built on golang.org/x/time/rate.
//   - ClientKey: best available client address for a request.
//
// Window state lives behind WindowStore so it can be kept in memory or in
// Redis. Either way limits are per store, not global.
package ratelimit
