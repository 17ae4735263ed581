package tarball

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/tinyzimmer/dpu/pkg/log"
	"github.com/tinyzimmer/dpu/pkg/types"
)

// CreateOrigTarball creates a tarball suitable for use as the upstream tarball of a
// non-native package. The contents are taken from <SourceDir>/<Name>-<Version>,
// which becomes the top-level directory inside the archive no matter where the
// tarball is written. The tarball is named <Name>_<Version>.orig.tar.<ext> and
// written to OutputDir (SourceDir when empty). The path of the new tarball is returned.
//
// Anything in the source directory is treated as upstream code, so a debian/
// directory present there ends up in the tarball. For 1.0 source packages only
// gzip should be used.
func CreateOrigTarball(spec types.ArchiveSpec) (string, error) {
	if spec.Compression == "" {
		spec.Compression = types.DefaultCompression
	}
	if err := spec.Validate(); err != nil {
		return "", err
	}
	if spec.Compression != types.CompressionGzip {
		log.Debugf("%s tarballs are not accepted by 1.0 non-native source packages\n", spec.Compression)
	}

	outPath := spec.OutputPath()
	log.Infof("Creating %q from %q\n", outPath, spec.UnpackPath())
	err := withEncoder(outPath, spec.Compression, func(w io.Writer) error {
		tw := tar.NewWriter(w)
		if err := addTree(tw, spec.UnpackPath(), spec.UnpackDir(), outPath); err != nil {
			return err
		}
		return tw.Close()
	})
	if err != nil {
		if rmErr := os.Remove(outPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warningf("Unable to remove partial tarball %q: %s\n", outPath, rmErr)
		}
		return "", err
	}
	return outPath, nil
}

// encoder is the write side of a compression pipeline.
type encoder interface {
	io.Writer
	// Close flushes all data and releases the pipeline. For external compressors
	// this also reports the exit status.
	Close() error
	// Abort releases the pipeline after a failure.
	Abort() error
}

// withEncoder opens an encoder writing to path, hands it to fn and releases it on
// every exit path. Errors from fn take precedence over release errors.
func withEncoder(path string, c types.Compression, fn func(io.Writer) error) (err error) {
	enc, err := openEncoder(path, c)
	if err != nil {
		return err
	}
	released := false
	defer func() {
		if !released {
			if err := enc.Abort(); err != nil {
				log.Warningf("Releasing the encoder for %q after a panic failed: %s\n", path, err)
			}
		}
	}()
	if err := fn(enc); err != nil {
		released = true
		return combine(err, enc.Abort())
	}
	released = true
	return enc.Close()
}

func openEncoder(path string, c types.Compression) (encoder, error) {
	cd, err := lookupCodec(c)
	if err != nil {
		return nil, err
	}
	var argv []string
	if cd.external {
		if argv, err = commandFor(c, false); err != nil {
			return nil, err
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	if cd.inProcess != nil {
		cw, err := cd.inProcess.newEncoder(out)
		if err != nil {
			out.Close()
			return nil, err
		}
		return &inProcessEncoder{WriteCloser: cw, out: out}, nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		out.Close()
		return nil, err
	}
	proc, err := startProcess(argv, pr, out)
	// the compressor owns its ends of the pipeline now
	pr.Close()
	out.Close()
	if err != nil {
		pw.Close()
		return nil, err
	}
	return &externalEncoder{pw: pw, proc: proc}, nil
}

type inProcessEncoder struct {
	io.WriteCloser
	out *os.File
}

func (e *inProcessEncoder) Close() error {
	if err := e.WriteCloser.Close(); err != nil {
		if closeErr := e.out.Close(); closeErr != nil {
			log.Warningf("Unable to close %q: %s\n", e.out.Name(), closeErr)
		}
		return err
	}
	return e.out.Close()
}

func (e *inProcessEncoder) Abort() error {
	if err := e.WriteCloser.Close(); err != nil {
		log.Warningf("Unable to flush the encoder for %q: %s\n", e.out.Name(), err)
	}
	return e.out.Close()
}

type externalEncoder struct {
	pw   *os.File
	proc *process
}

func (e *externalEncoder) Write(p []byte) (int, error) { return e.pw.Write(p) }

func (e *externalEncoder) Close() error {
	closeErr := e.pw.Close()
	if err := e.proc.wait(); err != nil {
		return err
	}
	return closeErr
}

func (e *externalEncoder) Abort() error {
	err := e.proc.abort()
	if closeErr := e.pw.Close(); closeErr != nil {
		log.Warningf("Unable to close the pipe to %s: %s\n", e.proc.argv[0], closeErr)
	}
	return err
}

// addTree writes every entry below root to tw, rooted at arcRoot. skip is a path
// that must not be archived, usually the tarball being written.
func addTree(tw *tar.Writer, root, arcRoot, skip string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	absSkip, err := filepath.Abs(skip)
	if err != nil {
		return err
	}
	return filepath.Walk(absRoot, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if file == absSkip {
			log.Debugf("Not archiving %q into itself\n", file)
			return nil
		}

		rel, err := filepath.Rel(absRoot, file)
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(file); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = path.Join(arcRoot, filepath.ToSlash(rel))
		if info.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("writing header for %s: %w", header.Name, err)
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
}
