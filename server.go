package quiz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-barry/quiz/core"
	"github.com/go-barry/quiz/web"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const (
	cacheNoStore   = "no-store"
	cacheImmutable = "public, max-age=31536000, immutable"
	shutdownGrace  = 5 * time.Second
)

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	// Port overrides the config file when non-zero.
	Port       int
	ConfigPath string
}

type Server struct {
	Addr    string
	Handler *chi.Mux
	Config  core.Config
	Logger  *logrus.Logger

	watcher *core.Watcher
}

var (
	ListenAndServe = func(srv *http.Server) error { return srv.ListenAndServe() }
	Exit           = os.Exit
)

// Start serves until SIGINT/SIGTERM. It is a variable so commands can be
// tested without binding a port.
var Start = func(cfg RuntimeConfig) {
	server, err := BuildServer(cfg)
	if err != nil {
		logrus.WithError(err).Error("could not build server")
		Exit(1)
		return
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if server.watcher != nil {
		go server.watcher.Run(ctx)
	}

	srv := &http.Server{
		Addr:              server.Addr,
		Handler:           server.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			server.Logger.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	server.Logger.WithFields(logrus.Fields{
		"env":   cfg.Env,
		"addr":  server.Addr,
		"cache": server.Config.CacheEnabled,
	}).Infof("Quiz app running on port %d", server.Config.Port)

	if err := ListenAndServe(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		server.Logger.WithError(err).Error("server failed")
		Exit(1)
	}
}

// BuildServer wires config, views, assets and routes without listening.
func BuildServer(cfg RuntimeConfig) (*Server, error) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = core.DefaultConfigFile
	}

	config := core.LoadConfig(configPath)
	config.CacheEnabled = cfg.EnableCache
	if cfg.Port != 0 {
		config.Port = cfg.Port
	}
	if config.Port < 1 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", config.Port)
	}

	log := core.NewLogger(cfg.Env, config)

	views := core.DirOrEmbedded(config.ViewsDir, web.Views())
	public := core.DirOrEmbedded(config.PublicDir, web.Public())
	renderer := core.NewViewRenderer(views, core.TemplateFuncs(cfg.Env, public, config.OutputDir))

	rt := core.RuntimeContext{
		Env:      cfg.Env,
		Logger:   log,
		Renderer: renderer,
		Static:   makeStaticHandler(cfg.Env, public, filepath.Join(config.OutputDir, "static")),
		Public:   public,
	}

	server := &Server{
		Addr:   fmt.Sprintf(":%d", config.Port),
		Config: config,
		Logger: log,
	}

	if cfg.Env == "dev" {
		reloader := core.NewLiveReloader(log)
		rt.Reloader = reloader

		watcher, err := core.NewWatcher([]string{config.ViewsDir, config.PublicDir}, log, func() {
			renderer.Reset()
			reloader.BroadcastReload()
		})
		if err != nil {
			log.WithError(err).Warn("live reload disabled: could not watch files")
		} else {
			server.watcher = watcher
		}
	}

	server.Handler = core.NewRouter(config, rt)
	return server, nil
}

func (s *Server) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

// makeStaticHandler serves public files at their relative URL paths. In
// prod the minified cache is tried first, with its .gz sibling when the
// client accepts gzip.
func makeStaticHandler(env string, public fs.FS, cacheStaticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}

		rel, ok := assetPath(r.URL.Path)
		if !ok {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if rel == "" {
			http.NotFound(w, r)
			return
		}

		if env == "dev" {
			serveFromFS(w, r, public, rel, cacheNoStore)
			return
		}

		cachedFile := filepath.Join(cacheStaticDir, filepath.FromSlash(rel))
		if acceptsGzip(r) && fileExists(cachedFile+".gz") {
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Set("Vary", "Accept-Encoding")
			serveFileWithHeaders(w, r, cachedFile+".gz", detectMimeType(rel), cacheImmutable)
			return
		}
		if fileExists(cachedFile) {
			serveFileWithHeaders(w, r, cachedFile, detectMimeType(rel), cacheImmutable)
			return
		}

		serveFromFS(w, r, public, rel, cacheImmutable)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, file, contentType, cacheControl string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, file)
}

func serveFromFS(w http.ResponseWriter, r *http.Request, public fs.FS, rel, cacheControl string) {
	info, err := fs.Stat(public, rel)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	content, err := fs.ReadFile(public, rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", detectMimeType(rel))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeContent(w, r, path.Base(rel), info.ModTime(), bytes.NewReader(content))
}

// assetPath turns a URL path into an fs.FS path. ok is false for any
// attempt to climb out of the public directory.
func assetPath(urlPath string) (string, bool) {
	for _, segment := range strings.Split(urlPath, "/") {
		if segment == ".." {
			return "", false
		}
	}
	rel := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	return rel, true
}

func detectMimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".ico":
		return "image/x-icon"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}
