package codec

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/pgzip"
	"lukechampine.com/blake3"

	"github.com/alistra/boolsearch/boolerr"
)

const checksumSize = 32

// writeFrame appends a blake3 checksum to payload, optionally gzip-wraps
// the result (using a parallel gzip writer rather than the stdlib's
// single-threaded compress/gzip), and writes it atomically via a temp file
// in the same directory followed by a rename.
func writeFrame(path string, payload []byte, gzipWrap bool) error {
	sum := blake3.Sum256(payload)

	var body []byte
	if gzipWrap {
		var buf bytes.Buffer
		zw := pgzip.NewWriter(&buf)
		if _, err := zw.Write(payload); err != nil {
			return boolerr.Wrap(boolerr.KindIOError, err, "compress shard %s", path)
		}
		if _, err := zw.Write(sum[:]); err != nil {
			return boolerr.Wrap(boolerr.KindIOError, err, "compress shard checksum %s", path)
		}
		if err := zw.Close(); err != nil {
			return boolerr.Wrap(boolerr.KindIOError, err, "close compressor %s", path)
		}
		body = buf.Bytes()
	} else {
		body = make([]byte, 0, len(payload)+checksumSize)
		body = append(body, payload...)
		body = append(body, sum[:]...)
	}

	return atomicWrite(path, body)
}

// readFrame reverses writeFrame: gunzip if requested, split off and verify
// the trailing checksum, and return the raw payload. Uncompressed shards
// are read through a read-only mmap (SteosMorphy's DAWG loading pattern)
// and copied out of the mapping; see readShardBytes.
func readFrame(path string, gzipWrap bool) ([]byte, error) {
	raw, err := readShardBytes(path, gzipWrap)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, boolerr.Wrap(boolerr.KindMissingShard, err, "shard %s", path)
		}
		return nil, boolerr.Wrap(boolerr.KindIOError, err, "read shard %s", path)
	}

	body := raw
	if gzipWrap {
		zr, err := pgzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, boolerr.Wrap(boolerr.KindCodecError, err, "open gzip shard %s", path)
		}
		defer zr.Close()
		body, err = io.ReadAll(zr)
		if err != nil {
			return nil, boolerr.Wrap(boolerr.KindCodecError, err, "decompress shard %s", path)
		}
	}

	if len(body) < checksumSize {
		return nil, boolerr.New(boolerr.KindCodecError, "truncated shard %s (%d bytes)", path, len(body))
	}

	payload := body[:len(body)-checksumSize]
	wantSum := body[len(body)-checksumSize:]
	gotSum := blake3.Sum256(payload)
	if !bytes.Equal(gotSum[:], wantSum) {
		return nil, boolerr.New(boolerr.KindCodecError, "checksum mismatch in shard %s", path)
	}

	return payload, nil
}

// readShardBytes reads a shard file's raw bytes. Compressed shards are
// read with a plain buffered read (the gzip reader needs an io.Reader
// anyway); uncompressed shards are mapped read-only via mmap and copied
// into a freshly allocated slice of the file's size, so the returned bytes
// stay valid after the mapping is released.
func readShardBytes(path string, gzipWrap bool) ([]byte, error) {
	if gzipWrap {
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, boolerr.Wrap(boolerr.KindIOError, err, "mmap shard %s", path)
	}
	defer m.Unmap()

	out := make([]byte, len(m))
	copy(out, m)
	return out, nil
}

// atomicWrite writes data to a temp file beside path, then renames it into
// place, so a reader never observes a partially-written shard.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "create temp file for %s", path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return boolerr.Wrap(boolerr.KindIOError, err, "write temp file for %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return boolerr.Wrap(boolerr.KindIOError, err, "close temp file for %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return boolerr.Wrap(boolerr.KindIOError, err, "rename temp file into %s", path)
	}
	return nil
}

// IsNotExist reports whether err denotes a missing shard file: callers
// treat a missing shard as an empty posting rather than surfacing an error.
// Read* wraps the underlying os error as a boolerr KindMissingShard error,
// so this checks both the boolerr kind and (for callers handed a raw
// filesystem error) the stdlib fs.ErrNotExist sentinel.
func IsNotExist(err error) bool {
	return boolerr.Is(err, boolerr.KindMissingShard) || errors.Is(err, fs.ErrNotExist)
}
