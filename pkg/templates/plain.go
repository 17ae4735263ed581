package templates

import "github.com/tinyzimmer/dpu/pkg/log"

// PlainTemplate copies a directory tree verbatim into the destination.
type PlainTemplate struct {
	fsHolder
	src string
}

// Plain returns a template that copies the tree at src.
func Plain(src string) *PlainTemplate { return &PlainTemplate{src: src} }

// Source returns the template directory.
func (p *PlainTemplate) Source() string { return p.src }

// Render merges the template tree into dest.
func (p *PlainTemplate) Render(dest string) error {
	log.Debugf("Rendering plain template %q to %q\n", p.src, dest)
	return copyTree(p.filesystem(), p.src, dest, nil)
}
