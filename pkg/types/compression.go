package types

import "strings"

// Compression represents a compression applied to an orig tarball.
type Compression string

const (
	// CompressionGzip compresses tarballs in-process with gzip.
	CompressionGzip Compression = "gzip"
	// CompressionBzip2 compresses tarballs in-process with bzip2.
	CompressionBzip2 Compression = "bzip2"
	// CompressionXz pipes tarballs through the external xz utility.
	CompressionXz Compression = "xz"
	// CompressionLzma pipes tarballs through the external lzma utility.
	CompressionLzma Compression = "lzma"
)

// DefaultCompression is the only compression 1.0 non-native source packages accept.
const DefaultCompression = CompressionGzip

// Compressions returns all supported compressions in their canonical order.
func Compressions() []Compression {
	return []Compression{CompressionGzip, CompressionBzip2, CompressionXz, CompressionLzma}
}

// CompressionNames returns the string form of all supported compressions, useful
// for shell completion.
func CompressionNames() []string {
	out := make([]string, 0)
	for _, c := range Compressions() {
		out = append(out, string(c))
	}
	return out
}

// ParseCompression returns the compression matching the given name. Matching is
// case-insensitive.
func ParseCompression(name string) (Compression, error) {
	c := Compression(strings.ToLower(strings.TrimSpace(name)))
	if !c.Valid() {
		return "", &ConfigurationError{Setting: "compression", Value: name}
	}
	return c, nil
}

// Valid returns true if this is one of the supported compressions.
func (c Compression) Valid() bool {
	switch c {
	case CompressionGzip, CompressionBzip2, CompressionXz, CompressionLzma:
		return true
	}
	return false
}

// Extension returns the file suffix dpkg-source expects for the compression, or an
// empty string for an unknown compression.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return "gz"
	case CompressionBzip2:
		return "bz2"
	case CompressionXz:
		return "xz"
	case CompressionLzma:
		return "lzma"
	}
	return ""
}

func (c Compression) String() string { return string(c) }
