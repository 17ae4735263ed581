package templates

import (
	"bytes"
	"fmt"
	"regexp"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/tinyzimmer/dpu/pkg/log"
	"github.com/tinyzimmer/dpu/pkg/types"
)

// JinjaTemplate copies a directory tree into the destination, substituting context
// variables in every file. Variables can be referenced Jinja-style as {{ name }} or
// as {{ .name }}, and the sprig function library is available.
type JinjaTemplate struct {
	fsHolder
	src     string
	context map[string]string
}

// Jinja returns a template rendering the tree at src. A context must be set
// before it can be rendered.
func Jinja(src string) *JinjaTemplate { return &JinjaTemplate{src: src} }

// Source returns the template directory.
func (j *JinjaTemplate) Source() string { return j.src }

// SetContext sets the variables available to the template. An empty, non-nil
// context is valid.
func (j *JinjaTemplate) SetContext(ctx map[string]string) {
	j.context = make(map[string]string, len(ctx))
	for k, v := range ctx {
		j.context[k] = v
	}
}

// Render renders the template tree into dest.
func (j *JinjaTemplate) Render(dest string) error {
	if j.context == nil {
		return &types.ConfigurationError{Setting: "context", Value: j.src, Reason: "jinja templates need a context to render"}
	}
	log.Debugf("Rendering jinja template %q to %q\n", j.src, dest)
	funcs := j.funcMap()
	return copyTree(j.filesystem(), j.src, dest, func(rel string, body []byte) ([]byte, error) {
		tmpl, err := template.New(rel).Funcs(funcs).Option("missingkey=error").Parse(string(body))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", rel, err)
		}
		var out bytes.Buffer
		if err := tmpl.Execute(&out, j.context); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", rel, err)
		}
		return out.Bytes(), nil
	})
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// funcMap exposes every context key that is a valid identifier as a function, so
// {{ name }} resolves the way it would in Jinja. Sprig functions keep their names:
// a key such as "upper" is only reachable as {{ .upper }}. Other keys are reachable
// with {{ index . "some-key" }}.
func (j *JinjaTemplate) funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	for key, value := range j.context {
		if !identifier.MatchString(key) {
			continue
		}
		if _, taken := funcs[key]; taken {
			log.Debugf("Context key %q shadows a template function, use {{ .%s }}\n", key, key)
			continue
		}
		value := value
		funcs[key] = func() string { return value }
	}
	return funcs
}
