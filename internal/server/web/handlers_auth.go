package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/server/models"
	"github.com/mlezhnev/moviehub/internal/server/services"
	"github.com/mlezhnev/moviehub/internal/server/validation"
)

const generalErrorMessage = "An error occurred. Please try again."

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "auth/register", Page{
		Title:   "Register",
		Session: s.currentSession(r),
		Flash:   s.consumeFlash(w, r),
		Errors:  validation.Result{},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	values := r.PostForm

	renderAgain := func(errs validation.Result) {
		s.render(w, r, http.StatusOK, "auth/register", Page{
			Title:  "Register",
			Errors: errs,
			Old:    values,
		})
	}

	errs := validation.Run(values, validation.RegisterRules()...)
	if !errs.Valid() {
		renderAgain(errs)
		return
	}

	user, err := s.credentials.Register(r.Context(),
		values.Get("username"), values.Get("email"), values.Get("password"))
	if err != nil {
		var conflict *services.ConflictError
		if errors.As(err, &conflict) {
			renderAgain(validation.Result(conflict.Fields))
			return
		}
		s.log.Error(r.Context(), "registering user", "error", err)
		renderAgain(validation.Result{"general": generalErrorMessage})
		return
	}

	s.startSession(w, r, user,
		fmt.Sprintf("Registration successful! Welcome, %s! Please save your login credentials safely.", user.Username))
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "auth/login", Page{
		Title:   "Login",
		Session: s.currentSession(r),
		Flash:   s.consumeFlash(w, r),
		Errors:  validation.Result{},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	values := r.PostForm

	renderAgain := func(errs validation.Result) {
		s.render(w, r, http.StatusOK, "auth/login", Page{
			Title:  "Login",
			Errors: errs,
			Old:    values,
		})
	}

	errs := validation.Run(values, validation.LoginRules()...)
	if !errs.Valid() {
		renderAgain(errs)
		return
	}

	user, err := s.credentials.Verify(r.Context(), values.Get("email"), values.Get("password"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUserNotFound):
			renderAgain(validation.Result{"email": "No user found with this email"})
		case errors.Is(err, common.ErrWrongPassword):
			renderAgain(validation.Result{"password": "Password is incorrect"})
		default:
			s.log.Error(r.Context(), "verifying credentials", "error", err)
			renderAgain(validation.Result{"general": generalErrorMessage})
		}
		return
	}

	s.startSession(w, r, user,
		fmt.Sprintf("Login successful! Welcome back, %s!", user.Username))
}

// startSession issues a session for the user, queues the welcome flash, and
// sends them to the movie list.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *models.User, welcome string) {
	token, err := s.sessions.Create(r.Context(), user.ID, user.Username)
	if err != nil {
		s.log.Error(r.Context(), "creating session", "error", err, "user_id", user.ID)
		s.render(w, r, http.StatusOK, "auth/login", Page{
			Title:  "Login",
			Errors: validation.Result{"general": generalErrorMessage},
			Old:    url.Values{"email": {user.Email}},
		})
		return
	}

	setSessionCookie(w, token)
	if err := s.sessions.SetFlash(r.Context(), token, models.FlashSuccess, welcome); err != nil {
		s.log.Error(r.Context(), "setting welcome flash", "error", err)
	}
	http.Redirect(w, r, "/movies", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(r.Context(), sessionToken(r)); err != nil {
		s.log.Error(r.Context(), "destroying session", "error", err)
		http.Redirect(w, r, "/movies", http.StatusFound)
		return
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}
