// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/facetoface/internal/app/system/auth"
)

// UserCtx returns the user's role (lowercased), name, ID, and a found flag.
// If no user is present in context, or the ID is not positive, it returns
// "visitor", "", 0, false. Callers can trust that ok=true means a
// signed-in user with a usable ID.
func UserCtx(r *http.Request) (role string, name string, userID int64, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.ID <= 0 {
		return "visitor", "", 0, false
	}
	return strings.ToLower(user.Role), user.Name, user.ID, true
}
