package types

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ArchiveSpec describes an orig tarball to be created.
type ArchiveSpec struct {
	// The directory containing the unpacked upstream source, named <Name>-<Version>
	SourceDir string
	// The upstream name of the package
	Name string
	// The upstream version of the package
	Version string
	// The compression to apply, defaults to gzip
	Compression Compression
	// The directory to write the tarball to, defaults to SourceDir
	OutputDir string
}

// UnpackDir returns the name of the directory holding the upstream sources. It is
// also the top-level entry inside the tarball.
func (a *ArchiveSpec) UnpackDir() string { return fmt.Sprintf("%s-%s", a.Name, a.Version) }

// UnpackPath returns the full path to the upstream sources.
func (a *ArchiveSpec) UnpackPath() string { return filepath.Join(a.SourceDir, a.UnpackDir()) }

// FileName returns the name of the tarball as dpkg-source expects it.
func (a *ArchiveSpec) FileName() string {
	return fmt.Sprintf("%s_%s.orig.tar.%s", a.Name, a.Version, a.compression().Extension())
}

// OutputPath returns the full path the tarball will be written to.
func (a *ArchiveSpec) OutputPath() string {
	dir := a.OutputDir
	if dir == "" {
		dir = a.SourceDir
	}
	return filepath.Join(dir, a.FileName())
}

func (a *ArchiveSpec) compression() Compression {
	if a.Compression == "" {
		return DefaultCompression
	}
	return a.Compression
}

// Validate checks the spec before any file or process is created.
func (a *ArchiveSpec) Validate() error {
	if a.Name == "" {
		return &ConfigurationError{Setting: "name", Value: a.Name, Reason: "upstream name is required"}
	}
	if a.Version == "" {
		return &ConfigurationError{Setting: "version", Value: a.Version, Reason: "upstream version is required"}
	}
	if !a.compression().Valid() {
		return &ConfigurationError{Setting: "compression", Value: string(a.Compression)}
	}
	stat, err := os.Stat(a.UnpackPath())
	if err != nil {
		return &ConfigurationError{Setting: "source directory", Value: a.UnpackPath(), Reason: err.Error()}
	}
	if !stat.IsDir() {
		return &ConfigurationError{Setting: "source directory", Value: a.UnpackPath(), Reason: "not a directory"}
	}
	return nil
}

// EntryType is the kind of an entry read from an archive.
type EntryType string

const (
	// EntryFile is a regular file.
	EntryFile EntryType = "file"
	// EntryDir is a directory.
	EntryDir EntryType = "dir"
	// EntrySymlink is a symbolic link.
	EntrySymlink EntryType = "symlink"
	// EntryHardlink is a hard link to an earlier entry.
	EntryHardlink EntryType = "hardlink"
	// EntryOther is anything else (devices, fifos, pax headers).
	EntryOther EntryType = "other"
)

// EntryTypeFromFlag maps a tar typeflag to an EntryType.
func EntryTypeFromFlag(flag byte) EntryType {
	switch flag {
	case tar.TypeReg, tar.TypeRegA:
		return EntryFile
	case tar.TypeDir:
		return EntryDir
	case tar.TypeSymlink:
		return EntrySymlink
	case tar.TypeLink:
		return EntryHardlink
	}
	return EntryOther
}

// ArchiveEntry is a single record read from a tarball. Entries are produced lazily
// and in storage order. The Body is only readable until the next entry is requested
// or the archive is closed.
type ArchiveEntry struct {
	Name     string
	Type     EntryType
	Size     int64
	Mode     os.FileMode
	ModTime  time.Time
	Linkname string
	Body     io.Reader
}
