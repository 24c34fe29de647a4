// Package console serves the screens as a local JSON console. Every route of
// the navigation table is guarded before its handler runs.
package console

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"hotelres/internal/auth"
	"hotelres/internal/utils"
	"hotelres/internal/views"
)

const (
	cookieName = "hotelres-console"
	flashKey   = "notices"
)

func init() {
	// flashes are stored as []interface{} in the cookie
	gob.Register([]interface{}{})
}

type Server struct {
	deps    views.Deps
	guard   *auth.Guard
	cookies *sessions.CookieStore
	router  *mux.Router
}

// NewServer builds the console over deps. secret signs the notice cookie.
func NewServer(deps views.Deps, secret []byte) *Server {
	if deps.Log == nil {
		deps.Log = utils.Discard()
	}
	cookies := sessions.NewCookieStore(secret)
	cookies.Options = &sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
	s := &Server{
		deps:    deps,
		guard:   auth.NewGuard(deps.Session, auth.Routes),
		cookies: cookies,
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	handlers := s.pages()
	for _, route := range auth.Routes {
		methods, ok := handlers[route.Name]
		if !ok {
			continue
		}
		guarded := s.guard.Middleware(route.Requires)
		for method, fn := range methods {
			s.router.Handle(route.Path, guarded(s.handle(fn))).Methods(method)
		}
	}
	s.router.HandleFunc("/notices", s.notices).Methods(http.MethodGet)
	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}).Methods(http.MethodGet)
	// unknown paths land on the entry point
	s.router.NotFoundHandler = http.RedirectHandler(auth.EntryPoint, http.StatusFound)
}

// page handles one request with request-scoped deps.
type page func(r *http.Request, d views.Deps) (any, error)

func (s *Server) handle(fn page) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := s.deps
		d.Notices = views.NewNotices(nil)
		body, err := fn(r, d)
		s.flash(w, r, d.Notices)
		if err != nil {
			s.deps.Log.Warnf("%s %s: %v", r.Method, r.URL.Path, err)
			writeJSON(w, status(err), map[string]string{"error": message(err)})
			return
		}
		if body == nil {
			body = map[string]string{"status": "ok"}
		}
		writeJSON(w, http.StatusOK, body)
	})
}

// flash moves the notices raised by a request into the cookie session.
func (s *Server) flash(w http.ResponseWriter, r *http.Request, n *views.Notices) {
	active := n.Active(timeNow())
	if len(active) == 0 {
		return
	}
	sess, _ := s.cookies.Get(r, cookieName)
	for _, note := range active {
		data, err := json.Marshal(note)
		if err != nil {
			continue
		}
		sess.AddFlash(string(data), flashKey)
	}
	if err := sess.Save(r, w); err != nil {
		s.deps.Log.Errorf("save notices: %v", err)
	}
}

// notices pops the pending flashes that have not expired yet.
func (s *Server) notices(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.cookies.Get(r, cookieName)
	now := timeNow()
	out := []views.Notice{}
	for _, raw := range sess.Flashes(flashKey) {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var note views.Notice
		if json.Unmarshal([]byte(str), &note) != nil || !now.Before(note.Expires) {
			continue
		}
		out = append(out, note)
	}
	if err := sess.Save(r, w); err != nil {
		s.deps.Log.Errorf("save notices: %v", err)
	}
	writeJSON(w, http.StatusOK, out)
}

func status(err error) int {
	var apiErr *utils.APIError
	switch {
	case utils.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, views.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, auth.ErrLogoutCancelled):
		return http.StatusOK
	case errors.As(err, &apiErr):
		if apiErr.Status == 0 {
			return http.StatusBadGateway
		}
		return apiErr.Status
	default:
		return http.StatusInternalServerError
	}
}

func message(err error) string {
	switch {
	case errors.Is(err, views.ErrInFlight), errors.Is(err, auth.ErrLogoutCancelled):
		return err.Error()
	}
	return utils.Message(err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
