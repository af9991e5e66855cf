package httpx

import (
	"net/http"
)

// dashboardAreas are the pages behind the shared dashboard shell.
var dashboardAreas = map[string]struct{}{
	"artist": {},
	"buyer":  {},
	"museum": {},
	"admin":  {},
}

// dashboardHandler answers the shell for an admitted principal. Any authenticated role
// reaches every area here; per-area checks belong to the pages themselves.
func dashboardHandler(w http.ResponseWriter, r *http.Request) {
	area := r.PathValue("area")
	if area != "" {
		if _, ok := dashboardAreas[area]; !ok {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, Message: http.StatusText(http.StatusNotFound)})
			return
		}
	}
	p, _ := GetPrincipalFromContext(r.Context())
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"area": area,
		"user": p,
	})
}
