package testutil

import "testing"

// Scenario steps are plain subtests whose names read as a sentence in
// `go test -v` output, e.g. "Given_a_citizen/When_they_submit/Then_...".
func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(keyword+" "+desc, fn)
}

func Given(t *testing.T, desc string, fn func(t *testing.T)) { t.Helper(); step(t, "Given", desc, fn) }
func When(t *testing.T, desc string, fn func(t *testing.T))  { t.Helper(); step(t, "When", desc, fn) }
func Then(t *testing.T, desc string, fn func(t *testing.T))  { t.Helper(); step(t, "Then", desc, fn) }
func And(t *testing.T, desc string, fn func(t *testing.T))   { t.Helper(); step(t, "And", desc, fn) }
