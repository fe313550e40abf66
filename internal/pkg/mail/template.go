package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"maps"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrTemplateNotFound is returned by Render for an unknown template name.
var ErrTemplateNotFound = errors.New("mail template not found")

// Renderer renders the embedded HTML templates.
type Renderer struct {
	templates map[string]*template.Template
	base      map[string]any
}

// NewRenderer parses every embedded template. base is merged under the data
// passed to Render, so per-call values win.
func NewRenderer(base map[string]any) (*Renderer, error) {
	files, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(files)), base: maps.Clone(base)}
	for _, f := range files {
		name := strings.TrimSuffix(f.Name(), path.Ext(f.Name()))
		tpl, err := template.New(name).Option("missingkey=zero").ParseFS(templateFS, "templates/"+f.Name())
		if err != nil {
			return nil, fmt.Errorf("mail: parse template %s: %w", name, err)
		}
		r.templates[name] = tpl.Lookup(f.Name())
	}

	return r, nil
}

// Has reports whether a template with name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes template name with data.
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	merged := make(map[string]any, len(r.base)+len(data))
	maps.Copy(merged, r.base)
	maps.Copy(merged, data)

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, merged); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", name, err)
	}

	return buf.String(), nil
}
