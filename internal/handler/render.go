package handler

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"strings"

	"github.com/labstack/echo/v4"
)

// Page templates; each is parsed together with templates/layout.html.
const (
	PageIndex = "index.html"
	PageMovie = "movie.html"
	PageError = "error.html"
)

var templateFuncs = template.FuncMap{
	"stars":   stars,
	"rating":  func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"float":   func(i int) float64 { return float64(i) },
	"ratings": func() []int { return []int{5, 4, 3, 2, 1} },
}

// Renderer implements echo.Renderer over a fixed set of page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page under templates/ in fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageIndex, PageMovie, PageError} {
		t, err := template.New(page).Funcs(templateFuncs).
			ParseFS(fsys, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// stars renders a 0-5 rating as filled and empty stars, rounding to the
// nearest whole star.
func stars(v float64) string {
	n := int(math.Round(v))
	n = min(max(n, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
