package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mlezhnev/moviehub/internal/logging"
	"github.com/mlezhnev/moviehub/internal/server/authz"
	"github.com/mlezhnev/moviehub/internal/server/repositories/repomanager"
	"github.com/mlezhnev/moviehub/internal/server/services"
)

type testEnv struct {
	ts      *httptest.Server
	manager repomanager.RepositoryManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	manager := repomanager.NewMemoryRepositoryManager()
	credentials := services.NewCredentialService(manager.Users(), bcrypt.MinCost)
	sessionSvc := services.NewSessionService(manager.Sessions(), 24*time.Hour, 24*time.Hour)
	movieSvc := services.NewMovieService(manager.Movies())
	guard := authz.NewGuard(sessionSvc)

	renderer, err := NewHTMLRenderer()
	require.NoError(t, err)

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := NewServer(credentials, sessionSvc, movieSvc, guard, renderer, NewFlashSigner("test_secret"), log)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, manager: manager}
}

// newClient returns a cookie-holding client, one per simulated browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (e *testEnv) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(e.ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) postForm(t *testing.T, c *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(e.ts.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) register(t *testing.T, c *http.Client, username, email, password string) {
	t.Helper()
	resp, body := e.postForm(t, c, "/register", url.Values{
		"username":        {username},
		"email":           {email},
		"password":        {password},
		"confirmPassword": {password},
	})
	require.Equal(t, "/movies", resp.Request.URL.Path)
	require.Contains(t, body, "Registration successful! Welcome, "+username+"!")
}

func TestRegisterAddAndForbiddenEdit(t *testing.T) {
	env := newTestEnv(t)

	alice := newClient(t)
	env.register(t, alice, "alice", "alice@x.com", "secret1")

	resp, body := env.postForm(t, alice, "/movies/add", url.Values{
		"name":        {"Arrival"},
		"description": {"A linguist deciphers an alien language."},
		"year":        {"2016"},
		"genres":      {"Drama", "Sci-Fi"},
		"rating":      {"7.9"},
	})
	require.Equal(t, "/movies", resp.Request.URL.Path)
	assert.Contains(t, body, "Movie added successfully!")
	assert.Contains(t, body, "Arrival")

	ctx := context.Background()
	aliceUser, err := env.manager.Users().FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	stored, err := env.manager.Movies().List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, aliceUser.ID, stored[0].CreatedBy)
	assert.Equal(t, []string{"Drama", "Sci-Fi"}, stored[0].Genres)
	require.NotNil(t, stored[0].Rating)
	assert.InDelta(t, 7.9, *stored[0].Rating, 1e-9)

	_, body = env.get(t, alice, "/movies/"+stored[0].ID)
	assert.Contains(t, body, "Arrival")
	assert.Contains(t, body, "A linguist deciphers an alien language.")
	assert.Contains(t, body, "Added by alice")

	bob := newClient(t)
	env.register(t, bob, "bob", "bob@x.com", "secret1")

	resp, body = env.get(t, bob, "/movies/"+stored[0].ID+"/edit")
	assert.Equal(t, "/movies", resp.Request.URL.Path)
	assert.Contains(t, body, "You do not have permission to modify this movie")
}

func TestRegister_ValidationErrorsRedisplayed(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	resp, body := env.postForm(t, c, "/register", url.Values{
		"username":        {"ab"},
		"email":           {"not-an-email"},
		"password":        {"short"},
		"confirmPassword": {"different"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/register", resp.Request.URL.Path)
	assert.Contains(t, body, "Username must be 3-30 characters")
	assert.Contains(t, body, "Please enter a valid email")
	assert.Contains(t, body, "Password must be at least 6 characters")
	assert.Contains(t, body, `value="ab"`)
	assert.Contains(t, body, `value="not-an-email"`)
}

func TestRegister_ConflictsReported(t *testing.T) {
	env := newTestEnv(t)

	first := newClient(t)
	env.register(t, first, "alice", "alice@x.com", "secret1")

	second := newClient(t)
	_, body := env.postForm(t, second, "/register", url.Values{
		"username":        {"alice"},
		"email":           {"alice@x.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	})
	assert.Contains(t, body, "Email already registered")
	assert.Contains(t, body, "Username already taken")
}

func TestLogin_FieldScopedErrors(t *testing.T) {
	env := newTestEnv(t)

	c := newClient(t)
	env.register(t, c, "alice", "alice@x.com", "secret1")
	env.get(t, c, "/logout")

	_, body := env.postForm(t, c, "/login", url.Values{
		"email":    {"nobody@x.com"},
		"password": {"whatever"},
	})
	assert.Contains(t, body, "No user found with this email")

	_, body = env.postForm(t, c, "/login", url.Values{
		"email":    {"alice@x.com"},
		"password": {"wrong"},
	})
	assert.Contains(t, body, "Password is incorrect")

	resp, body := env.postForm(t, c, "/login", url.Values{
		"email":    {"Alice@X.com "},
		"password": {"secret1"},
	})
	assert.Equal(t, "/movies", resp.Request.URL.Path)
	assert.Contains(t, body, "Login successful! Welcome back, alice!")
}

func TestProtectedRoutesBounceAnonymous(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	resp, body := env.get(t, c, "/movies/add")
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Please login to access this page")

	// The bounce flash is one-shot.
	_, body = env.get(t, c, "/login")
	assert.NotContains(t, body, "Please login to access this page")
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)
	env.register(t, c, "alice", "alice@x.com", "secret1")

	resp, _ := env.get(t, c, "/logout")
	assert.Equal(t, "/login", resp.Request.URL.Path)

	resp, _ = env.get(t, c, "/movies/add")
	assert.Equal(t, "/login", resp.Request.URL.Path)
}

func TestFlashShownExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)
	env.register(t, c, "alice", "alice@x.com", "secret1")

	// The welcome flash was consumed by the post-register redirect.
	_, body := env.get(t, c, "/movies")
	assert.NotContains(t, body, "Registration successful!")
}

func TestMovieEditAndDelete(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)
	env.register(t, c, "alice", "alice@x.com", "secret1")

	env.postForm(t, c, "/movies/add", url.Values{
		"name":        {"Arrival"},
		"description": {"A linguist deciphers an alien language."},
		"year":        {"2016"},
		"genres":      {"Drama"},
	})

	stored, err := env.manager.Movies().List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	id := stored[0].ID
	require.Nil(t, stored[0].Rating)

	_, body := env.get(t, c, "/movies/"+id+"/edit")
	assert.Contains(t, body, `value="Arrival"`)
	assert.Contains(t, body, `value="2016"`)

	resp, body := env.postForm(t, c, "/movies/"+id+"/edit", url.Values{
		"name":        {"Arrival (Director's Cut)"},
		"description": {"A linguist deciphers an alien language."},
		"year":        {"2016"},
		"genres":      {"Drama", "Sci-Fi"},
		"rating":      {"8.1"},
	})
	assert.Equal(t, "/movies/"+id, resp.Request.URL.Path)
	assert.Contains(t, body, "Movie updated successfully!")

	updated, err := env.manager.Movies().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Arrival (Director's Cut)", updated.Name)
	assert.Equal(t, stored[0].CreatedBy, updated.CreatedBy)

	resp, body = env.postForm(t, c, "/movies/"+id+"/delete", url.Values{})
	assert.Equal(t, "/movies", resp.Request.URL.Path)
	assert.Contains(t, body, "Movie deleted successfully!")

	remaining, err := env.manager.Movies().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestMovieValidationRedisplaysForm(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)
	env.register(t, c, "alice", "alice@x.com", "secret1")

	resp, body := env.postForm(t, c, "/movies/add", url.Values{
		"name":        {"X"},
		"description": {"too short"},
		"year":        {"1500"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Description must be at least 10 characters")
	assert.Contains(t, body, "At least one genre is required")
	assert.Contains(t, body, `value="1500"`)
}

func TestMovieDetails_NotFound(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	resp, body := env.get(t, c, "/movies/no-such-id")
	assert.Equal(t, "/movies", resp.Request.URL.Path)
	assert.Contains(t, body, "Movie not found")
}

func TestRootRedirectsToMovies(t *testing.T) {
	env := newTestEnv(t)
	c := newClient(t)

	resp, body := env.get(t, c, "/")
	assert.Equal(t, "/movies", resp.Request.URL.Path)
	assert.Contains(t, body, "All Movies")
}

func TestDetailPageHidesActionsFromNonOwner(t *testing.T) {
	env := newTestEnv(t)

	alice := newClient(t)
	env.register(t, alice, "alice", "alice@x.com", "secret1")
	env.postForm(t, alice, "/movies/add", url.Values{
		"name":        {"Arrival"},
		"description": {"A linguist deciphers an alien language."},
		"year":        {"2016"},
		"genres":      {"Drama"},
	})

	stored, err := env.manager.Movies().List(context.Background())
	require.NoError(t, err)
	id := stored[0].ID

	_, body := env.get(t, alice, "/movies/"+id)
	assert.Contains(t, body, "/movies/"+id+"/edit")

	bob := newClient(t)
	env.register(t, bob, "bob", "bob@x.com", "secret1")
	_, body = env.get(t, bob, "/movies/"+id)
	assert.False(t, strings.Contains(body, "/movies/"+id+"/edit"))
}
