package display

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs is sprig's function set plus wrap.
var templateFuncs = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["wrap"] = Wrap
	return fm
}()

// parsed caches compiled templates by their source text.
var parsed sync.Map

// ExpandTemplate executes the template source tmplStr against data. Sources
// are compiled once and reused.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := compile(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

func compile(src string) (*template.Template, error) {
	if t, ok := parsed.Load(src); ok {
		return t.(*template.Template), nil
	}
	t, err := template.New("").Funcs(templateFuncs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	actual, _ := parsed.LoadOrStore(src, t)
	return actual.(*template.Template), nil
}
