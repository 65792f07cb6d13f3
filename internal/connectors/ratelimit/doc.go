// Package ratelimit implements the per-source request windows used to pace
// calls to the card catalog APIs.
//
// Each source has a Policy: a fixed window, a request cap, a steady delay
// between requests, and a minimum wait once the cap is reached. The window
// arithmetic lives in Policy.Next, which is pure; Limiter holds the mutable
// per-source State behind a mutex.
package ratelimit
