package templates

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/tinyzimmer/dpu/pkg/types"
)

// Manifest is a file describing a list of templates to render, in order.
type Manifest struct {
	Templates []ManifestEntry `json:"templates" yaml:"templates"`
}

// ManifestEntry is a single template in a Manifest. Relative template paths are
// resolved against the directory of the manifest file.
type ManifestEntry struct {
	// The registry kind of the template, e.g. PlainTemplate
	Kind string `json:"kind" yaml:"kind"`

	types.TemplateOptions `yaml:",inline"`
}

// ManifestFromFile will unmarshal a file containing a template manifest.
func ManifestFromFile(path string) (*Manifest, error) {
	body, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(body, &manifest)
	} else if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.UnmarshalStrict(body, &manifest)
	} else {
		return nil, fmt.Errorf("%s is not a valid yaml or json file", path)
	}
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for i := range manifest.Templates {
		if p := manifest.Templates[i].Path; p != "" && !filepath.IsAbs(p) {
			manifest.Templates[i].Path = filepath.Join(base, p)
		}
	}
	return &manifest, nil
}

// ManagerFromFile loads a manifest and builds a Manager for it.
func ManagerFromFile(path string) (*Manager, error) {
	manifest, err := ManifestFromFile(path)
	if err != nil {
		return nil, err
	}
	manager := NewManager()
	for i, entry := range manifest.Templates {
		opts := entry.TemplateOptions
		if err := manager.AddTemplate(entry.Kind, &opts); err != nil {
			return nil, fmt.Errorf("%s: template %d: %w", path, i+1, err)
		}
	}
	return manager, nil
}
