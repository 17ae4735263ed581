package templates

import (
	"sort"

	"github.com/tinyzimmer/dpu/pkg/types"
)

// Factory builds a template from registry options.
type Factory func(opts *types.TemplateOptions) (types.Template, error)

var registry = map[types.TemplateKind]Factory{
	types.TemplatePlain:        newPlain,
	types.TemplateJinja:        newJinja,
	types.TemplateDebianShim:   newDebianShim,
	types.TemplateUpstreamShim: newUpstreamShim,
}

// Lookup returns the factory registered for kind.
func Lookup(kind string) (Factory, bool) {
	f, ok := registry[types.TemplateKind(kind)]
	return f, ok
}

// Kinds returns the names of all registered template kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

func requirePath(kind types.TemplateKind, opts *types.TemplateOptions) error {
	if opts.Path == "" {
		return &types.ConfigurationError{Setting: "path", Value: string(kind), Reason: "template directory is required"}
	}
	return nil
}

func newPlain(opts *types.TemplateOptions) (types.Template, error) {
	if err := requirePath(types.TemplatePlain, opts); err != nil {
		return nil, err
	}
	return Plain(opts.Path), nil
}

func newJinja(opts *types.TemplateOptions) (types.Template, error) {
	if err := requirePath(types.TemplateJinja, opts); err != nil {
		return nil, err
	}
	tmpl := Jinja(opts.Path)
	if opts.Context != nil {
		tmpl.SetContext(opts.Context)
	}
	return tmpl, nil
}

func newDebianShim(*types.TemplateOptions) (types.Template, error) { return Debian(), nil }

func newUpstreamShim(opts *types.TemplateOptions) (types.Template, error) {
	if opts.Name == "" || opts.Version == "" {
		return nil, &types.ConfigurationError{
			Setting: "upstream",
			Value:   opts.Name + "-" + opts.Version,
			Reason:  "name and version are required",
		}
	}
	shim := Upstream(opts.Name, opts.Version)
	if opts.Compression != "" {
		if err := shim.SetCompression(opts.Compression); err != nil {
			return nil, err
		}
	}
	return shim, nil
}
