package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/domain/user"
	"github.com/nahuelmendez6/int-com-back/internal/http/handlers"
	httpmw "github.com/nahuelmendez6/int-com-back/internal/http/middleware"
)

type RouterDependencies struct {
	PetitionHandler     *handlers.PetitionHandler
	PostulationHandler  *handlers.PostulationHandler
	NotificationHandler *handlers.NotificationHandler
	OfferHandler        *handlers.OfferHandler
	HireHandler         *handlers.HireHandler
	IdentityMiddleware  *httpmw.IdentityMiddleware
	Logger              *slog.Logger
	RequestTimeout      time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(r.deps.Logger),
		httpmw.Timeout(r.deps.RequestTimeout),
	)
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		if req.Method == http.MethodGet && path == "/health" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		if strings.HasPrefix(path, "/petitions") || strings.HasPrefix(path, "/postulations") ||
			strings.HasPrefix(path, "/notifications") || strings.HasPrefix(path, "/offers") ||
			strings.HasPrefix(path, "/hires") || strings.HasPrefix(path, "/customers") {
			protected := r.deps.IdentityMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && path == "/petitions":
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.PetitionHandler.ListMatched)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/petitions":
		httpmw.RequireRole(user.RoleCustomer)(http.HandlerFunc(r.deps.PetitionHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/customers/petitions":
		httpmw.RequireRole(user.RoleCustomer)(http.HandlerFunc(r.deps.PetitionHandler.ListOwn)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/petitions/") && strings.HasSuffix(path, "/close"):
		httpmw.RequireRole(user.RoleCustomer)(http.HandlerFunc(r.deps.PetitionHandler.Close)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/petitions/") && strings.HasSuffix(path, "/history"):
		httpmw.RequireRole(user.RoleCustomer)(http.HandlerFunc(r.deps.PetitionHandler.History)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/petitions/") && strings.HasSuffix(path, "/postulations"):
		httpmw.RequireRole(user.RoleCustomer)(http.HandlerFunc(r.deps.PostulationHandler.ListForPetition)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/petitions/"):
		r.deps.PetitionHandler.Get(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/petitions/"):
		httpmw.RequireRole(user.RoleCustomer)(http.HandlerFunc(r.deps.PetitionHandler.Delete)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/postulations":
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.PostulationHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/postulations":
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.PostulationHandler.ListOwn)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/postulations/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(user.RoleCustomer)(http.HandlerFunc(r.deps.PostulationHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/postulations/") && strings.HasSuffix(path, "/winner"):
		httpmw.RequireRole(user.RoleCustomer)(http.HandlerFunc(r.deps.PostulationHandler.MarkWinner)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/postulations/") && strings.HasSuffix(path, "/history"):
		r.deps.PostulationHandler.History(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/postulations/"):
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.PostulationHandler.Get)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/postulations/"):
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.PostulationHandler.Delete)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications":
		r.deps.NotificationHandler.List(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications/recent":
		r.deps.NotificationHandler.Recent(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications/unread-count":
		r.deps.NotificationHandler.UnreadCount(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications/stats":
		r.deps.NotificationHandler.Stats(w, req)
		return
	case req.Method == http.MethodPost && path == "/notifications/read-all":
		r.deps.NotificationHandler.MarkAllRead(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications/settings":
		r.deps.NotificationHandler.GetSettings(w, req)
		return
	case req.Method == http.MethodPut && path == "/notifications/settings":
		r.deps.NotificationHandler.UpdateSettings(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/notifications/") && strings.HasSuffix(path, "/read"):
		r.deps.NotificationHandler.MarkRead(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/notifications/"):
		r.deps.NotificationHandler.Delete(w, req)
		return
	case req.Method == http.MethodGet && path == "/offers":
		httpmw.RequireRole(user.RoleCustomer)(http.HandlerFunc(r.deps.OfferHandler.ListForCustomer)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/hires":
		r.deps.HireHandler.List(w, req)
		return
	}

	http.NotFound(w, req)
}
