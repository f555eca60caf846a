package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/mlezhnev/moviehub/internal/server/models"
	"github.com/mlezhnev/moviehub/internal/server/validation"
)

//go:embed templates
var templateFS embed.FS

// genreOptions is the fixed checkbox list offered by the add/edit forms.
var genreOptions = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary",
	"Drama", "Fantasy", "Horror", "Mystery", "Romance", "Sci-Fi", "Thriller",
}

var viewFuncs = template.FuncMap{
	"deref": func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	},
	"join":         strings.Join,
	"genreOptions": func() []string { return genreOptions },
	"ratingString": func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	},
}

// Page is the data handed to every view.
type Page struct {
	Title   string
	Session *models.Session
	Flash   models.Flash
	Errors  validation.Result
	// Old holds the previously submitted form values so a failed submission
	// redisplays what the user typed.
	Old    url.Values
	Movies []*models.Movie
	Movie  *models.Movie
}

// OldOr returns the submitted value for a field, or fallback when nothing
// was submitted. Edit forms use it to prefill from the stored record.
func (p Page) OldOr(field, fallback string) string {
	if p.Old == nil {
		return fallback
	}
	if v, ok := p.Old[field]; ok && len(v) > 0 {
		return v[0]
	}
	return fallback
}

// HasGenre reports whether the submitted (or prefilled) genres include g.
func (p Page) HasGenre(g string) bool {
	if p.Old != nil {
		for _, v := range p.Old["genres"] {
			if v == g {
				return true
			}
		}
		return false
	}
	if p.Movie != nil {
		for _, v := range p.Movie.Genres {
			if v == g {
				return true
			}
		}
	}
	return false
}

// Renderer turns a view name and page data into a response body. Handlers
// never touch templates directly.
type Renderer interface {
	Render(w io.Writer, name string, page Page) error
}

// HTMLRenderer renders embedded html/template views. Each view is parsed
// together with the shared layout; the view name is its path relative to the
// templates root, without extension (e.g. "auth/login", "movies/index").
type HTMLRenderer struct {
	templates map[string]*template.Template
}

// NewHTMLRenderer parses all embedded views.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	r := &HTMLRenderer{templates: map[string]*template.Template{}}

	err := fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") || path.Base(p) == "layout.html" {
			return nil
		}
		t, err := template.New("").Funcs(viewFuncs).ParseFS(templateFS, "templates/layout.html", p)
		if err != nil {
			return fmt.Errorf("parsing view %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/"), ".html")
		r.templates[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render writes the named view wrapped in the layout.
func (r *HTMLRenderer) Render(w io.Writer, name string, page Page) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	return t.ExecuteTemplate(w, "layout", page)
}
