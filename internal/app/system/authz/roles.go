// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"
)

// StaffRoles may browse activities and their session lists.
var StaffRoles = []string{"admin", "manager", "trainer"}

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	cur := strings.ToLower(role)
	for _, want := range roles {
		if cur == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}
