package types

// Template is an interface to be implemented by anything that can scaffold
// content into a fixture directory.
type Template interface {
	// Render should write (or remove) content under the given destination directory.
	Render(dest string) error
}

// TemplateKind is the registry name of a template implementation.
type TemplateKind string

const (
	// TemplatePlain copies a directory tree verbatim.
	TemplatePlain TemplateKind = "PlainTemplate"
	// TemplateJinja copies a directory tree substituting context variables.
	TemplateJinja TemplateKind = "JinjaTemplate"
	// TemplateDebianShim removes the debian directory of a source tree.
	TemplateDebianShim TemplateKind = "DebianShim"
	// TemplateUpstreamShim produces an orig tarball from a source tree.
	TemplateUpstreamShim TemplateKind = "UpstreamShim"
)

// TemplateOptions are the arguments used to construct a template through
// the registry. Which fields are used depends on the kind.
type TemplateOptions struct {
	// The source directory of a plain or jinja template
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Context variables for a jinja template
	Context map[string]string `json:"context,omitempty" yaml:"context,omitempty"`
	// The upstream name for an upstream shim
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// The upstream version for an upstream shim
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// The compression for an upstream shim
	Compression string `json:"compression,omitempty" yaml:"compression,omitempty"`
}
