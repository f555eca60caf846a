// Package web is the HTTP surface: a chi router over server-rendered HTML
// forms, cookie-carried sessions, and one-shot flash messages.
package web

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/logging"
	"github.com/mlezhnev/moviehub/internal/server/authz"
	"github.com/mlezhnev/moviehub/internal/server/models"
	"github.com/mlezhnev/moviehub/internal/server/services"
)

//go:embed static
var staticFS embed.FS

// Server holds the collaborators every handler needs.
type Server struct {
	credentials *services.CredentialService
	sessions    *services.SessionService
	movies      *services.MovieService
	guard       *authz.Guard
	renderer    Renderer
	anonFlash   *FlashSigner
	log         logging.Logger
	now         func() time.Time
}

// NewServer wires the handler set together.
func NewServer(
	credentials *services.CredentialService,
	sessions *services.SessionService,
	movies *services.MovieService,
	guard *authz.Guard,
	renderer Renderer,
	anonFlash *FlashSigner,
	log logging.Logger,
) *Server {
	return &Server{
		credentials: credentials,
		sessions:    sessions,
		movies:      movies,
		guard:       guard,
		renderer:    renderer,
		anonFlash:   anonFlash,
		log:         log,
		now:         time.Now,
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/movies", http.StatusFound)
	})

	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.Get("/movies", s.handleMovieList)
	r.Get("/movies/add", s.handleMovieAddForm)
	r.Post("/movies/add", s.handleMovieAdd)
	r.Get("/movies/{id}", s.handleMovieDetails)
	r.Get("/movies/{id}/edit", s.handleMovieEditForm)
	r.Post("/movies/{id}/edit", s.handleMovieEdit)
	r.Post("/movies/{id}/delete", s.handleMovieDelete)

	return r
}

// currentSession resolves the session cookie to a live session, or nil for
// an anonymous visitor.
func (s *Server) currentSession(r *http.Request) *models.Session {
	session, err := s.sessions.Authenticate(r.Context(), sessionToken(r))
	if err != nil {
		return nil
	}
	return session
}

// consumeFlash gathers pending one-shot messages from both channels: the
// authenticated session's flash slots and the anonymous flash cookie. Both
// are cleared by the read.
func (s *Server) consumeFlash(w http.ResponseWriter, r *http.Request) models.Flash {
	flash, err := s.sessions.ConsumeFlash(r.Context(), sessionToken(r))
	if err != nil {
		s.log.Error(r.Context(), "consuming session flash", "error", err)
	}

	if token := flashToken(r); token != "" {
		anon := s.anonFlash.Parse(token)
		clearFlashCookie(w)
		if flash.Success == "" {
			flash.Success = anon.Success
		}
		if flash.Error == "" {
			flash.Error = anon.Error
		}
	}
	return flash
}

// setFlash queues a one-shot message for the next page view. Authenticated
// visitors get it on their session; anonymous visitors get a signed cookie.
func (s *Server) setFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if token := sessionToken(r); token != "" {
		err := s.sessions.SetFlash(r.Context(), token, kind, message)
		if err == nil {
			return
		}
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Error(r.Context(), "setting session flash", "error", err)
		}
	}

	signed, err := s.anonFlash.Sign(kind, message)
	if err != nil {
		s.log.Error(r.Context(), "signing flash cookie", "error", err)
		return
	}
	setFlashCookie(w, signed)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, view string, page Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderer.Render(w, view, page); err != nil {
		s.log.Error(r.Context(), "rendering view", "view", view, "error", err)
	}
}
