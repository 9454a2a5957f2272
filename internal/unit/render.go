package unit

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"text/template"
)

// Marker is the first line of every generated unit file and the sole provenance signal.
const Marker = "# Generated by mkunit"

//go:embed templates/*.unit
var templateFS embed.FS

var templates = func() map[Type]*template.Template {
	parsed := make(map[Type]*template.Template, len(typeNames))
	for _, t := range Types() {
		src, err := templateFS.ReadFile("templates/" + t.String() + ".unit")
		if err != nil {
			panic(fmt.Sprintf("missing embedded template for %s: %v", t, err))
		}
		parsed[t] = mustParse(t, string(src))
	}
	return parsed
}()

// TemplateError reports a record that could not be bound into its template.
// It points at a packaging defect rather than bad user input.
type TemplateError struct {
	Kind  Type
	Cause error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("failed to render %s template: %v", e.Kind, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// Render binds rec into the template for kind and returns normalized unit text
// whose first line is Marker.
func Render(kind Type, rec Record) (string, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return "", &TemplateError{Kind: kind, Cause: errors.New("no template registered")}
	}
	if rec == nil {
		return "", &TemplateError{Kind: kind, Cause: errors.New("record is nil")}
	}
	if rec.Kind() != kind {
		return "", &TemplateError{Kind: kind, Cause: fmt.Errorf("cannot bind a %s record", rec.Kind())}
	}
	return execute(kind, tmpl, rec)
}

func execute(kind Type, tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &TemplateError{Kind: kind, Cause: err}
	}
	return Marker + "\n" + Normalize(buf.String()), nil
}

func mustParse(kind Type, src string) *template.Template {
	return template.Must(template.New(kind.String()).Option("missingkey=error").Parse(src))
}
