// Package strings holds small slice helpers shared by the services.
package strings

// Unique drops repeated values and keeps first occurrences in order. Fan-out
// code uses it so an official assigned twice is notified once.
func Unique[T comparable](values []T) []T {
	if len(values) < 2 {
		return values
	}
	seen := make(map[T]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
