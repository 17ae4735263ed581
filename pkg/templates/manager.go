package templates

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/tinyzimmer/dpu/pkg/log"
	"github.com/tinyzimmer/dpu/pkg/types"
)

// Manager renders an ordered list of templates into a single destination. Later
// templates see, and may overwrite, the output of earlier ones.
type Manager struct {
	fs        afero.Fs
	templates []types.Template
}

// NewManager returns an empty Manager.
func NewManager() *Manager { return &Manager{templates: make([]types.Template, 0)} }

// SetFs sets the filesystem used by every template that supports one, including
// templates added later.
func (m *Manager) SetFs(fs afero.Fs) {
	m.fs = fs
	for _, t := range m.templates {
		m.applyFs(t)
	}
}

func (m *Manager) applyFs(t types.Template) {
	if m.fs == nil {
		return
	}
	if setter, ok := t.(FsSetter); ok {
		setter.SetFs(m.fs)
	}
}

// AddTemplate builds a template of the given registered kind and appends it.
func (m *Manager) AddTemplate(kind string, opts *types.TemplateOptions) error {
	factory, ok := Lookup(kind)
	if !ok {
		return &types.ConfigurationError{Setting: "template kind", Value: kind}
	}
	if opts == nil {
		opts = &types.TemplateOptions{}
	}
	tmpl, err := factory(opts)
	if err != nil {
		return err
	}
	return m.AddRealTemplate(tmpl)
}

// AddRealTemplate appends an already constructed template.
func (m *Manager) AddRealTemplate(t types.Template) error {
	if t == nil {
		return &types.ConfigurationError{Setting: "template", Value: "<nil>", Reason: "cannot add a nil template"}
	}
	m.applyFs(t)
	m.templates = append(m.templates, t)
	return nil
}

// Templates returns the templates in render order.
func (m *Manager) Templates() []types.Template { return m.templates }

// Render renders all templates into dest, in the order they were added. It stops
// at the first failure.
func (m *Manager) Render(dest string) error {
	for idx, t := range m.templates {
		log.Debugf("Rendering template %d/%d (%T)\n", idx+1, len(m.templates), t)
		if err := t.Render(dest); err != nil {
			return fmt.Errorf("template %d (%T): %w", idx+1, t, err)
		}
	}
	return nil
}
