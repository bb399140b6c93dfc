// Package ratelimit provides the token bucket guarding outbound provider calls.
//
// The provider enforces a hard ceiling of 30 requests per minute per API key.
// Every fetch acquires one admission unit before touching the network, blocking
// the caller until the bucket can cover it.
//
// # Usage
//
//	limiter := ratelimit.New(30, time.Minute)
//	if err := limiter.Acquire(ctx); err != nil {
//	    return err // context cancelled while waiting
//	}
//	// perform the call
package ratelimit
