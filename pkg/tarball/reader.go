package tarball

import (
	"archive/tar"
	"errors"
	"io"
	"io/ioutil"
	"os"

	"github.com/tinyzimmer/dpu/pkg/log"
	"github.com/tinyzimmer/dpu/pkg/types"
)

// ErrArchiveClosed is returned when reading from an archive that was already closed.
var ErrArchiveClosed = errors.New("archive is closed")

// Archive is a compressed tarball opened for sequential reading. Depending on the
// compression the data may come from an external process, so seeking is never
// supported: entries must be consumed in the order they are stored.
type Archive struct {
	path   string
	dec    decoder
	tr     *tar.Reader
	closed bool
}

// decoder is the read side of a compression pipeline.
type decoder interface {
	io.Reader
	// Close drains whatever is left of the stream and releases the pipeline. For
	// external decompressors this also reports the exit status.
	Close() error
	// Abort releases the pipeline without reading the rest of the stream.
	Abort() error
}

// OpenCompressedTarball opens the tarball at path for sequential reading. gzip and
// bzip2 are decoded in-process, xz and lzma through the external decompressor.
// The caller must Close the archive; WithCompressedTarball does that automatically.
func OpenCompressedTarball(path string, c types.Compression) (*Archive, error) {
	dec, err := openDecoder(path, c)
	if err != nil {
		return nil, err
	}
	log.Debugf("Opened %q (%s)\n", path, c)
	return &Archive{path: path, dec: dec, tr: tar.NewReader(dec)}, nil
}

// WithCompressedTarball opens the tarball at path and passes it to fn. The archive
// is released on every exit path. When fn fails, the pipeline is aborted and fn's
// error is returned, with any release failure attached as a secondary error.
func WithCompressedTarball(path string, c types.Compression, fn func(*Archive) error) error {
	archive, err := OpenCompressedTarball(path, c)
	if err != nil {
		return err
	}
	released := false
	defer func() {
		if !released {
			if err := archive.abort(); err != nil {
				log.Warningf("Releasing %q after a panic failed: %s\n", path, err)
			}
		}
	}()
	if err := fn(archive); err != nil {
		released = true
		return combine(err, archive.abort())
	}
	released = true
	return archive.Close()
}

// Path returns the path of the tarball being read.
func (a *Archive) Path() string { return a.path }

// Next advances to the next entry in the archive. It returns io.EOF when there are
// no more entries. The returned entry's Body is only valid until the next call.
func (a *Archive) Next() (*types.ArchiveEntry, error) {
	if a.closed {
		return nil, ErrArchiveClosed
	}
	header, err := a.tr.Next()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, &types.FormatError{Path: a.path, Err: err}
	}
	return &types.ArchiveEntry{
		Name:     header.Name,
		Type:     types.EntryTypeFromFlag(header.Typeflag),
		Size:     header.Size,
		Mode:     header.FileInfo().Mode(),
		ModTime:  header.ModTime,
		Linkname: header.Linkname,
		Body:     &entryReader{r: a.tr, path: a.path},
	}, nil
}

// Walk calls fn for every remaining entry in storage order. Iteration stops at the
// first error returned by fn.
func (a *Archive) Walk(fn func(*types.ArchiveEntry) error) error {
	for {
		entry, err := a.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
}

// Close drains the rest of the stream, so an external decompressor can finish and
// its exit status can be checked, and releases all handles. It is safe to call
// more than once.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.dec.Close()
}

func (a *Archive) abort() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.dec.Abort()
}

// entryReader turns codec errors surfacing while reading an entry body into
// FormatErrors.
type entryReader struct {
	r    io.Reader
	path string
}

func (e *entryReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF {
		err = &types.FormatError{Path: e.path, Err: err}
	}
	return n, err
}

func openDecoder(path string, c types.Compression) (decoder, error) {
	cd, err := lookupCodec(c)
	if err != nil {
		return nil, err
	}
	var argv []string
	if cd.external {
		if argv, err = commandFor(c, true); err != nil {
			return nil, err
		}
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if cd.inProcess != nil {
		cr, err := cd.inProcess.newDecoder(in)
		if err != nil {
			in.Close()
			return nil, &types.FormatError{Path: path, Err: err}
		}
		return &inProcessDecoder{ReadCloser: cr, in: in, path: path}, nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		in.Close()
		return nil, err
	}
	proc, err := startProcess(argv, in, pw)
	// the decompressor owns the input file and the write end of the pipe now
	in.Close()
	pw.Close()
	if err != nil {
		pr.Close()
		return nil, err
	}
	return &externalDecoder{pr: pr, proc: proc}, nil
}

type inProcessDecoder struct {
	io.ReadCloser
	in   *os.File
	path string
}

func (d *inProcessDecoder) Close() error {
	drainErr := drain(d.ReadCloser)
	closeErr := d.ReadCloser.Close()
	if err := d.in.Close(); err != nil {
		log.Warningf("Unable to close %q: %s\n", d.path, err)
	}
	if drainErr != nil {
		return &types.FormatError{Path: d.path, Err: drainErr}
	}
	return closeErr
}

func (d *inProcessDecoder) Abort() error {
	if err := d.ReadCloser.Close(); err != nil {
		log.Warningf("Unable to close the decoder for %q: %s\n", d.path, err)
	}
	return d.in.Close()
}

// drain reads r to the end. The reader is wrapped so io.Copy cannot use a WriterTo
// implementation: klauspost's gzip.Reader computes a wrong checksum in WriteTo once
// Read has been called on it.
func drain(r io.Reader) error {
	_, err := io.Copy(ioutil.Discard, struct{ io.Reader }{r})
	return err
}

type externalDecoder struct {
	pr   *os.File
	proc *process
}

func (d *externalDecoder) Read(p []byte) (int, error) { return d.pr.Read(p) }

func (d *externalDecoder) Close() error {
	drainErr := drain(d.pr)
	if err := d.pr.Close(); err != nil {
		log.Warningf("Unable to close the pipe from %s: %s\n", d.proc.argv[0], err)
	}
	if err := d.proc.wait(); err != nil {
		return err
	}
	return drainErr
}

func (d *externalDecoder) Abort() error {
	err := d.proc.abort()
	if closeErr := d.pr.Close(); closeErr != nil {
		log.Warningf("Unable to close the pipe from %s: %s\n", d.proc.argv[0], closeErr)
	}
	return err
}
