package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tinyzimmer/dpu/pkg/log"
)

// FsSetter is implemented by templates that can operate on an arbitrary filesystem.
type FsSetter interface {
	SetFs(afero.Fs)
}

// fsHolder is embedded by templates that work through afero. The zero value uses
// the OS filesystem.
type fsHolder struct{ fs afero.Fs }

// SetFs sets the filesystem the template reads from and renders to.
func (f *fsHolder) SetFs(fs afero.Fs) { f.fs = fs }

func (f *fsHolder) filesystem() afero.Fs {
	if f.fs == nil {
		return afero.NewOsFs()
	}
	return f.fs
}

// transformFunc receives the path of a template file relative to the template root
// and its contents, and returns the contents to write.
type transformFunc func(rel string, body []byte) ([]byte, error)

// copyTree merges the tree at src into dest. Directories are merged, files already
// present in dest are overwritten.
func copyTree(fs afero.Fs, src, dest string, transform transformFunc) error {
	isDir, err := afero.IsDir(fs, src)
	if err != nil {
		return fmt.Errorf("template %s: %w", src, err)
	}
	if !isDir {
		return fmt.Errorf("template %s is not a directory", src)
	}
	return afero.Walk(fs, src, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, file)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		switch {
		case info.IsDir():
			return fs.MkdirAll(target, 0755)
		case info.Mode()&os.ModeSymlink != 0:
			return copySymlink(fs, file, target)
		case !info.Mode().IsRegular():
			log.Debugf("Skipping special file %q\n", file)
			return nil
		}

		body, err := afero.ReadFile(fs, file)
		if err != nil {
			return err
		}
		if transform != nil {
			if body, err = transform(rel, body); err != nil {
				return err
			}
		}
		log.Debugf("Writing %q\n", target)
		return afero.WriteFile(fs, target, body, info.Mode().Perm())
	})
}

func copySymlink(fs afero.Fs, file, target string) error {
	reader, okRead := fs.(afero.LinkReader)
	linker, okLink := fs.(afero.Linker)
	if !okRead || !okLink {
		log.Debugf("Filesystem cannot copy symlink %q, skipping\n", file)
		return nil
	}
	link, err := reader.ReadlinkIfPossible(file)
	if err != nil {
		return err
	}
	if err := fs.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return linker.SymlinkIfPossible(link, target)
}
