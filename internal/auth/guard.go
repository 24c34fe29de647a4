package auth

import (
	"net/http"
	"strings"
)

// Requirement is what a view needs from the session before it mounts.
type Requirement int

const (
	None Requirement = iota
	Authenticated
	Admin
)

func (r Requirement) String() string {
	switch r {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "none"
	}
}

// EntryPoint is where denied navigation lands.
const EntryPoint = "/login"

// StateSource is anything reporting a session state; *Session is one.
type StateSource interface {
	State() State
}

// Decision is the result of a guard check.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Guard evaluates requirements against the session. It never calls the network.
type Guard struct {
	session StateSource
	routes  []Route
}

func NewGuard(session StateSource, routes []Route) *Guard {
	return &Guard{session: session, routes: routes}
}

func (g *Guard) Check(req Requirement) Decision {
	if Satisfies(g.session.State(), req) {
		return Decision{Allowed: true}
	}
	return Decision{Redirect: EntryPoint}
}

// CheckPath resolves path against the route table. Unknown paths redirect,
// like the fallback route.
func (g *Guard) CheckPath(path string) Decision {
	route, ok := Match(g.routes, path)
	if !ok {
		return Decision{Redirect: EntryPoint}
	}
	return g.Check(route.Requires)
}

// Middleware redirects to the entry point before next runs when the
// session does not satisfy req.
func (g *Guard) Middleware(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d := g.Check(req); !d.Allowed {
				http.Redirect(w, r, d.Redirect, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func Satisfies(s State, req Requirement) bool {
	switch req {
	case None:
		return true
	case Authenticated:
		return s != Anonymous
	case Admin:
		return s == AuthenticatedAdmin
	}
	return false
}

// Route is one navigable view. Path uses {name} placeholders.
type Route struct {
	Name     string
	Path     string
	Requires Requirement
}

// Routes is the application's navigation table.
var Routes = []Route{
	{"home", "/home", None},
	{"login", "/login", None},
	{"register", "/register", None},
	{"activate", "/activate/{code}", None},
	{"forgot-password", "/forgot-password", None},
	{"reset-password", "/reset-password/{code}", None},
	{"rooms", "/rooms", None},
	{"find-booking", "/find-booking", None},

	{"room-details", "/room-details-book/{roomId}", Authenticated},
	{"profile", "/profile", Authenticated},
	{"edit-profile", "/edit-profile/{userId}", Authenticated},

	{"admin", "/admin", Admin},
	{"add-user", "/admin/add-user", Admin},
	{"edit-user", "/admin/edit-user/{userId}", Admin},
	{"manage-users", "/admin/manage-users", Admin},
	{"manage-rooms", "/admin/manage-rooms", Admin},
	{"edit-room", "/admin/edit-room/{roomId}", Admin},
	{"add-room", "/admin/add-room", Admin},
	{"manage-bookings", "/admin/manage-bookings", Admin},
	{"edit-booking", "/admin/edit-booking/{bookingCode}", Admin},
}

// Match finds the route whose template matches path segment by segment.
func Match(routes []Route, path string) (Route, bool) {
	segs := split(path)
	for _, r := range routes {
		tmpl := split(r.Path)
		if len(tmpl) != len(segs) {
			continue
		}
		ok := true
		for i, t := range tmpl {
			if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") {
				if segs[i] == "" {
					ok = false
					break
				}
				continue
			}
			if t != segs[i] {
				ok = false
				break
			}
		}
		if ok {
			return r, true
		}
	}
	return Route{}, false
}

func split(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.Split(strings.Trim(path, "/"), "/")
}
