package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/server/models"
	"github.com/mlezhnev/moviehub/internal/server/services"
	"github.com/mlezhnev/moviehub/internal/server/validation"
)

func (s *Server) handleMovieList(w http.ResponseWriter, r *http.Request) {
	page := Page{
		Title:   "All Movies",
		Session: s.currentSession(r),
		Flash:   s.consumeFlash(w, r),
	}

	movies, err := s.movies.List(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "listing movies", "error", err)
		page.Flash.Error = "Error loading movies"
		movies = nil
	}
	page.Movies = movies

	s.render(w, r, http.StatusOK, "movies/index", page)
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	movie, err := s.movies.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.setFlash(w, r, models.FlashError, "Movie not found")
		} else {
			s.log.Error(r.Context(), "loading movie", "error", err)
			s.setFlash(w, r, models.FlashError, "Error loading movie")
		}
		http.Redirect(w, r, "/movies", http.StatusFound)
		return
	}

	s.render(w, r, http.StatusOK, "movies/details", Page{
		Title:   movie.Name,
		Session: s.currentSession(r),
		Flash:   s.consumeFlash(w, r),
		Movie:   movie,
	})
}

func (s *Server) handleMovieAddForm(w http.ResponseWriter, r *http.Request) {
	session := s.requireSession(w, r)
	if session == nil {
		return
	}

	s.render(w, r, http.StatusOK, "movies/add", Page{
		Title:   "Add Movie",
		Session: session,
		Flash:   s.consumeFlash(w, r),
		Errors:  validation.Result{},
		Old:     url.Values{},
	})
}

func (s *Server) handleMovieAdd(w http.ResponseWriter, r *http.Request) {
	session := s.requireSession(w, r)
	if session == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	values := r.PostForm

	renderAgain := func(errs validation.Result) {
		s.render(w, r, http.StatusOK, "movies/add", Page{
			Title:   "Add Movie",
			Session: session,
			Errors:  errs,
			Old:     values,
		})
	}

	errs := validation.Run(values, validation.MovieRules(s.now())...)
	if !errs.Valid() {
		renderAgain(errs)
		return
	}

	if _, err := s.movies.Create(r.Context(), movieInputFromForm(values), session.UserID); err != nil {
		s.log.Error(r.Context(), "adding movie", "error", err, "user_id", session.UserID)
		renderAgain(validation.Result{"general": "Error adding movie. Please try again."})
		return
	}

	s.setFlash(w, r, models.FlashSuccess, "Movie added successfully!")
	http.Redirect(w, r, "/movies", http.StatusFound)
}

func (s *Server) handleMovieEditForm(w http.ResponseWriter, r *http.Request) {
	session := s.requireSession(w, r)
	if session == nil {
		return
	}
	movie := s.requireOwnedMovie(w, r, session)
	if movie == nil {
		return
	}

	s.render(w, r, http.StatusOK, "movies/edit", Page{
		Title:   "Edit Movie",
		Session: session,
		Flash:   s.consumeFlash(w, r),
		Errors:  validation.Result{},
		Movie:   movie,
	})
}

func (s *Server) handleMovieEdit(w http.ResponseWriter, r *http.Request) {
	session := s.requireSession(w, r)
	if session == nil {
		return
	}
	movie := s.requireOwnedMovie(w, r, session)
	if movie == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	values := r.PostForm

	renderAgain := func(errs validation.Result) {
		s.render(w, r, http.StatusOK, "movies/edit", Page{
			Title:   "Edit Movie",
			Session: session,
			Errors:  errs,
			Old:     values,
			Movie:   movie,
		})
	}

	errs := validation.Run(values, validation.MovieRules(s.now())...)
	if !errs.Valid() {
		renderAgain(errs)
		return
	}

	if err := s.movies.Update(r.Context(), movie, movieInputFromForm(values)); err != nil {
		s.log.Error(r.Context(), "updating movie", "error", err, "movie_id", movie.ID)
		renderAgain(validation.Result{"general": "Error updating movie. Please try again."})
		return
	}

	s.setFlash(w, r, models.FlashSuccess, "Movie updated successfully!")
	http.Redirect(w, r, "/movies/"+movie.ID, http.StatusFound)
}

func (s *Server) handleMovieDelete(w http.ResponseWriter, r *http.Request) {
	session := s.requireSession(w, r)
	if session == nil {
		return
	}
	movie := s.requireOwnedMovie(w, r, session)
	if movie == nil {
		return
	}

	if err := s.movies.Delete(r.Context(), movie.ID); err != nil {
		s.log.Error(r.Context(), "deleting movie", "error", err, "movie_id", movie.ID)
		s.setFlash(w, r, models.FlashError, "Error deleting movie")
	} else {
		s.setFlash(w, r, models.FlashSuccess, "Movie deleted successfully!")
	}
	http.Redirect(w, r, "/movies", http.StatusFound)
}

// requireSession gates a protected page. Anonymous visitors get bounced to
// the login page with an explanatory flash; the caller must stop when nil is
// returned.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) *models.Session {
	session, err := s.guard.RequireAuthenticated(r.Context(), sessionToken(r))
	if err != nil {
		if !errors.Is(err, common.ErrUnauthenticated) {
			s.log.Error(r.Context(), "authenticating request", "error", err)
		}
		clearSessionCookie(w)
		s.setFlash(w, r, models.FlashError, "Please login to access this page")
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil
	}
	return session
}

// requireOwnedMovie gates edit and delete. The movie it returns is the one
// the subsequent mutation operates on; there is no second fetch between the
// ownership check and the write.
func (s *Server) requireOwnedMovie(w http.ResponseWriter, r *http.Request, session *models.Session) *models.Movie {
	movie, err := s.guard.RequireOwnership(r.Context(), session, chi.URLParam(r, "id"), s.movies.Get)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			s.setFlash(w, r, models.FlashError, "Movie not found")
		case errors.Is(err, common.ErrForbidden):
			s.setFlash(w, r, models.FlashError, "You do not have permission to modify this movie")
		default:
			s.log.Error(r.Context(), "checking movie ownership", "error", err)
			s.setFlash(w, r, models.FlashError, "Something went wrong")
		}
		http.Redirect(w, r, "/movies", http.StatusFound)
		return nil
	}
	return movie
}

// movieInputFromForm converts already-validated form values. Genres arrive
// as repeated checkbox values; rating is optional and empty means unrated.
func movieInputFromForm(values url.Values) services.MovieInput {
	year, _ := strconv.Atoi(values.Get("year"))

	var rating *float64
	if raw := values.Get("rating"); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			rating = &f
		}
	}

	return services.MovieInput{
		Name:        values.Get("name"),
		Description: values.Get("description"),
		Year:        year,
		Genres:      values["genres"],
		Rating:      rating,
	}
}
