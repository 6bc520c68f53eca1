package rest

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"listing-web/internal/core/domain"
	"net/http"
	"path"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutTemplate = "templates/layout.html"

var templateFuncs = template.FuncMap{
	"vnd":            FormatVND,
	"withUnit":       withUnit,
	"orDash":         orDash,
	"detailURL":      detailURL,
	"previewURL":     previewURL,
	"listingURL":     listingURL,
	"conditionLabel": domain.ConditionInteriorLabel,
	"add":            func(a, b int) int { return a + b },
	"sub":            func(a, b int) int { return a - b },
	"times":          func(n int) []int { return make([]int, n) },
}

// Renderer хранит страницы, каждая собрана вместе с общим layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer разбирает встроенные шаблоны
func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}
		tmpl, err := template.New(path.Base(layoutTemplate)).Funcs(templateFuncs).ParseFS(templatesFS, layoutTemplate, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(path.Base(name), ".html")] = tmpl
	}
	return r, nil
}

// Render пишет страницу целиком. Шаблон сначала рендерится в буфер, чтобы ошибка не оставила полупустой ответ.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
