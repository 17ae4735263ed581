package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinyzimmer/dpu/pkg/tarball"
	"github.com/tinyzimmer/dpu/pkg/types"
)

// UpstreamShim produces the orig tarball of a non-native package from its unpacked
// upstream sources. It always works on the OS filesystem, since xz and lzma
// tarballs are produced by external programs.
type UpstreamShim struct {
	name, version string
	compression   types.Compression
}

// Upstream returns a shim creating <name>_<version>.orig.tar.gz.
func Upstream(name, version string) *UpstreamShim {
	return &UpstreamShim{name: name, version: version, compression: types.DefaultCompression}
}

// SetCompression sets the compression of the tarball. Only gzip is valid for 1.0
// source packages.
func (u *UpstreamShim) SetCompression(name string) error {
	c, err := types.ParseCompression(name)
	if err != nil {
		return err
	}
	u.compression = c
	return nil
}

// Compression returns the configured compression.
func (u *UpstreamShim) Compression() types.Compression { return u.compression }

// Render creates the tarball. dest is normally the run directory holding
// <name>-<version>, and the tarball is written next to that directory. When dest
// is the <name>-<version> directory itself, its parent is used as the run directory.
func (u *UpstreamShim) Render(dest string) error {
	spec := types.ArchiveSpec{
		SourceDir:   dest,
		Name:        u.name,
		Version:     u.version,
		Compression: u.compression,
	}
	if filepath.Base(filepath.Clean(dest)) == spec.UnpackDir() {
		if _, err := os.Stat(spec.UnpackPath()); os.IsNotExist(err) {
			spec.SourceDir = filepath.Dir(filepath.Clean(dest))
		}
	}
	if _, err := tarball.CreateOrigTarball(spec); err != nil {
		return fmt.Errorf("creating upstream tarball for %s: %w", spec.UnpackDir(), err)
	}
	return nil
}
