// Package website renders a static HTML page per user from a shared
// token-based template file.
package website

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"movieshelf/storage"
)

const (
	// TemplateFileName is the shared template expected in the static dir.
	TemplateFileName = "index_template.html"

	titleToken = "__TEMPLATE_TITLE__"
	gridToken  = "__TEMPLATE_MOVIE_GRID__"

	// defaultPageName is used when sanitizing a user name leaves nothing.
	defaultPageName = "home"
)

type Generator struct {
	staticPath string
	siteTitle  string
}

func NewGenerator(staticPath, siteTitle string) *Generator {
	return &Generator{
		staticPath: staticPath,
		siteTitle:  siteTitle,
	}
}

// Generate writes the HTML page for one user and returns the output path.
// The movies are rendered in store order.
func (g *Generator) Generate(user storage.User, movies []storage.Movie) (string, error) {
	templatePath := filepath.Join(g.staticPath, TemplateFileName)
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %v", templatePath, err)
	}

	var grid strings.Builder
	for _, movie := range movies {
		grid.WriteString(fmt.Sprintf(`
        <li>
            <div class="movie">
                <img class="movie-poster" src="%s" alt="Poster for %s">
                <div class="movie-title">%s</div>
                <div class="movie-year">%d</div>
            </div>
        </li>
`,
			html.EscapeString(movie.PosterURL),
			html.EscapeString(movie.Title),
			html.EscapeString(movie.Title),
			movie.Year))
	}

	page := strings.ReplaceAll(string(template), titleToken, html.EscapeString(g.siteTitle))
	page = strings.ReplaceAll(page, gridToken, grid.String())

	outputPath := filepath.Join(g.staticPath, SanitizeFileName(user.Name)+".html")
	if err := os.WriteFile(outputPath, []byte(page), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %v", outputPath, err)
	}

	return outputPath, nil
}

// SanitizeFileName reduces a user name to a safe file name: alphanumerics,
// underscore and hyphen are kept, spaces become underscores, everything else
// is dropped. An empty result falls back to a fixed default.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if sanitized == "" {
		return defaultPageName
	}
	return sanitized
}
