package refpack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ============================================================
// Compressed Table Container
// ============================================================
//
// A framed, zstd-compressed wrapper for an encoded table. Shared
// structure makes tables repetitive, so they compress well at rest.
// Layout:
//
//	magic        4 bytes  "RPK1"
//	ct length    1 byte
//	content type ct-length bytes (the codec's MIME type)
//	raw length   4 bytes big-endian (encoded table size)
//	payload      zstd stream of the encoded table
//
// The container is a transport wrapper only; codec semantics are
// untouched.

var containerMagic = [4]byte{'R', 'P', 'K', '1'}

// Container errors
var (
	ErrBadMagic     = errors.New("refpack: not a refpack container")
	ErrUnknownCodec = errors.New("refpack: no codec for container content type")
)

// WriteContainer compresses an encoded table onto w using the given
// codec.
func WriteContainer(w io.Writer, t Table, codec Codec) error {
	encoded, err := codec.Marshal(t)
	if err != nil {
		return err
	}

	ct := codec.ContentType()
	if len(ct) > 255 {
		return fmt.Errorf("refpack: content type too long: %q", ct)
	}

	header := make([]byte, 0, 4+1+len(ct)+4)
	header = append(header, containerMagic[:]...)
	header = append(header, byte(len(ct)))
	header = append(header, ct...)
	header = binary.BigEndian.AppendUint32(header, uint32(len(encoded)))
	if _, err := w.Write(header); err != nil {
		return err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := zw.Write(encoded); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadContainer reads one container from r and decodes it with
// whichever of the given codecs matches the stored content type. With
// no codecs given it accepts JSON and CBOR.
func ReadContainer(r io.Reader, codecs ...Codec) (Table, error) {
	if len(codecs) == 0 {
		codecs = []Codec{JSONCodec{}, CBORCodec{}}
	}

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("refpack: container header: %w", err)
	}
	if magic != containerMagic {
		return nil, ErrBadMagic
	}

	var ctLen [1]byte
	if _, err := io.ReadFull(r, ctLen[:]); err != nil {
		return nil, fmt.Errorf("refpack: container header: %w", err)
	}
	ct := make([]byte, ctLen[0])
	if _, err := io.ReadFull(r, ct); err != nil {
		return nil, fmt.Errorf("refpack: container header: %w", err)
	}

	var rawLen [4]byte
	if _, err := io.ReadFull(r, rawLen[:]); err != nil {
		return nil, fmt.Errorf("refpack: container header: %w", err)
	}
	size := binary.BigEndian.Uint32(rawLen[:])

	var codec Codec
	for _, c := range codecs {
		if c.ContentType() == string(ct) {
			codec = c
			break
		}
	}
	if codec == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, string(ct))
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	// The declared length comes from an untrusted header, so it never
	// drives an allocation: read through a limit and grow, then check
	// the stream actually matched.
	encoded, err := io.ReadAll(io.LimitReader(zr, int64(size)+1))
	if err != nil {
		return nil, fmt.Errorf("refpack: container payload: %w", err)
	}
	if len(encoded) != int(size) {
		return nil, fmt.Errorf("refpack: container payload: declared %d bytes, got %d", size, len(encoded))
	}
	return codec.Unmarshal(encoded)
}
