// Package web embeds the HTML templates and the static assets served under
// /static.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"portfolio/site/internal/motion"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"year":         func() int { return time.Now().Year() },
		"inc":          func(i int) int { return i + 1 },
		"upper":        strings.ToUpper,
		"motionConfig": func() string { return motion.DefaultConfig().JSON() },
		// Carousel transforms are computed server-side, never from input.
		"safeCSS":      func(s string) template.CSS { return template.CSS(s) },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

// Templates parses every page and partial into one set. Pages are looked up
// by file name, e.g. "skills.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static returns the asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
