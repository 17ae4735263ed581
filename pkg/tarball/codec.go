package tarball

import (
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/pgzip"

	"github.com/tinyzimmer/dpu/pkg/types"
)

// Commands holds the argv used to run the external compressor for each compression
// that is not handled in-process. Decompression appends "-d" to the same argv.
// It can be overridden by CLI flags or tests.
var Commands = map[types.Compression][]string{
	types.CompressionXz:   {"xz"},
	types.CompressionLzma: {"lzma"},
}

// codec backs a compression either with an in-process encoder/decoder pair or
// with an external command. Exactly one of the two is set.
type codec struct {
	inProcess *inProcessCodec
	external  bool
}

type inProcessCodec struct {
	newEncoder func(io.Writer) (io.WriteCloser, error)
	newDecoder func(io.Reader) (io.ReadCloser, error)
}

var codecs = map[types.Compression]codec{
	types.CompressionGzip: {inProcess: &inProcessCodec{
		newEncoder: func(w io.Writer) (io.WriteCloser, error) {
			return pgzip.NewWriterLevel(w, pgzip.BestCompression)
		},
		newDecoder: func(r io.Reader) (io.ReadCloser, error) { return gzip.NewReader(r) },
	}},
	types.CompressionBzip2: {inProcess: &inProcessCodec{
		newEncoder: func(w io.Writer) (io.WriteCloser, error) {
			return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
		},
		newDecoder: func(r io.Reader) (io.ReadCloser, error) { return bzip2.NewReader(r, nil) },
	}},
	types.CompressionXz:   {external: true},
	types.CompressionLzma: {external: true},
}

func lookupCodec(c types.Compression) (codec, error) {
	cd, ok := codecs[c]
	if !ok {
		return codec{}, &types.ConfigurationError{Setting: "compression", Value: string(c)}
	}
	return cd, nil
}

// commandFor returns a copy of the argv for the external (de)compressor of c.
func commandFor(c types.Compression, decompress bool) ([]string, error) {
	base := Commands[c]
	if len(base) == 0 {
		return nil, &types.ConfigurationError{Setting: "compression", Value: string(c), Reason: "no external command configured"}
	}
	argv := make([]string, len(base), len(base)+1)
	copy(argv, base)
	if decompress {
		argv = append(argv, "-d")
	}
	return argv, nil
}
