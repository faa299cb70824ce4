// Package authz holds the role-membership check used by the route gates.
// It is independent of the HTTP layer so the permission rules can be tested
// without a request harness.
package authz

// Allowed reports whether role is a member of the allowed set. An empty
// allowed set denies everything.
func Allowed(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
