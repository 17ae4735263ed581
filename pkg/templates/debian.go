package templates

import (
	"path/filepath"

	"github.com/tinyzimmer/dpu/pkg/log"
)

// DebianDir is the packaging directory of a Debian source tree.
const DebianDir = "debian"

// DebianShim removes the debian directory of a source tree, turning it back into
// plain upstream sources. Nothing else in the tree is touched, and rendering a tree
// without a debian directory is a no-op.
type DebianShim struct{ fsHolder }

// Debian returns a new DebianShim.
func Debian() *DebianShim { return &DebianShim{} }

// Render removes dest/debian if present.
func (d *DebianShim) Render(dest string) error {
	debdir := filepath.Join(dest, DebianDir)
	log.Debugf("Removing %q\n", debdir)
	return d.filesystem().RemoveAll(debdir)
}
