// Package models holds the rate limiting vocabulary shared by the stores and
// the middleware.
package models

import "time"

// Class groups endpoints that share one limit.
type Class string

const (
	// ClassCURP covers the anonymous CURP lookup and verification endpoints,
	// which proxy a rate limited government registry.
	ClassCURP Class = "curp"
	// ClassLogin covers token issuance and refresh.
	ClassLogin Class = "login"
)

// Limit allows Requests per sliding Window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// DefaultLimits apply when no override is configured.
var DefaultLimits = map[Class]Limit{
	ClassCURP:  {Requests: 5, Window: time.Minute},
	ClassLogin: {Requests: 20, Window: time.Minute},
}

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is in whole seconds and only set when the call was denied.
	RetryAfter int
}

type ExceededResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	RetryAfter  int    `json:"retry_after"`
}

// Key builds the bucket key for a client within a class.
func Key(class Class, client string) string {
	return "rl:" + string(class) + ":" + client
}
