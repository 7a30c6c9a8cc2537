package core

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type RuntimeContext struct {
	Env      string
	Logger   logrus.FieldLogger
	Renderer Renderer
	// Static answers every request no route matches.
	Static http.Handler
	// Public, when set, is checked before the routes: a GET for a file it
	// holds goes to Static even if a route shares the path.
	Public fs.FS
	// Reloader is mounted at LiveReloadPath when set.
	Reloader LiveReloaderInterface
}

func NewRouter(config Config, rt RuntimeContext) *chi.Mux {
	logger := rt.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	fallback := rt.Static
	if fallback == nil {
		fallback = http.NotFoundHandler()
	}

	h := NewHandler(config, rt.Env, rt.Renderer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	if rt.Public != nil {
		r.Use(publicFirst(rt.Public, fallback))
	}

	r.Get("/", h.Landing)
	r.Get("/quiz", h.Quiz)
	r.Post("/start-quiz", h.StartQuiz)
	r.Get("/result", h.Result)
	r.Get("/healthz", h.Health)

	if rt.Reloader != nil {
		r.Get(LiveReloadPath, rt.Reloader.Handler)
	}

	// Unmatched paths and methods fall through to the asset server, the same
	// way a static middleware sits behind the routes.
	r.NotFound(fallback.ServeHTTP)
	r.MethodNotAllowed(fallback.ServeHTTP)

	return r
}

func publicFirst(public fs.FS, static http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
				if rel != "" {
					if info, err := fs.Stat(public, rel); err == nil && !info.IsDir() {
						static.ServeHTTP(w, r)
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
