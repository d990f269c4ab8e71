// Package snapshot persists a built bitset index to a self-describing
// binary file.
//
// Format: a fixed little-endian header (magic, version, compression,
// partition geometry) followed by an optionally compressed payload of
// (group, words...) entries. The compression codec is recorded in the
// header, so files are always opened with the codec they were written with.
//
// Only shift-partitioned indexes can be persisted: a custom partition
// function is code, not data.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/denyset/bitset"
	"github.com/hupe1980/denyset/core"
)

// Compression selects the payload codec.
type Compression uint8

const (
	// CompressionNone stores the payload verbatim.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 frame compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD compression (better ratio).
	CompressionZSTD Compression = 2
)

const (
	magic   = "DSIX"
	version = 1
)

var (
	// ErrInvalidSnapshot is returned for data that is not a snapshot or is
	// truncated/corrupt.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrNotPersistable is returned when the index uses custom partition
	// functions.
	ErrNotPersistable = errors.New("index with custom partition functions is not persistable")
)

// ErrUnsupportedVersion indicates a snapshot written by a newer format
// revision.
type ErrUnsupportedVersion struct {
	Version uint8
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported snapshot version %d", e.Version)
}

// ErrUnknownCompression indicates a compression byte this build does not
// recognize.
type ErrUnknownCompression struct {
	Compression uint8
}

func (e *ErrUnknownCompression) Error() string {
	return fmt.Sprintf("unknown snapshot compression %d", e.Compression)
}

// Options configure Write.
type Options struct {
	// Compression selects the payload codec. Default: CompressionZSTD.
	Compression Compression
}

// DefaultOptions are the options used by Write when no overrides are given.
var DefaultOptions = Options{
	Compression: CompressionZSTD,
}

type header struct {
	Magic       [4]byte
	Version     uint8
	Compression uint8
	_           uint16
	BlockBits   uint32
	GroupShift  uint32
	GroupCount  uint32
	RawSize     uint32
}

// Write serializes idx to w.
func Write(w io.Writer, idx *bitset.Index, optFns ...func(*Options)) error {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	shift, ok := idx.GroupShift()
	if !ok {
		return ErrNotPersistable
	}

	groups := idx.Groups()
	var payload bytes.Buffer
	for _, g := range groups {
		words, _ := idx.Block(g)
		if err := binary.Write(&payload, binary.LittleEndian, g); err != nil {
			return err
		}
		if err := binary.Write(&payload, binary.LittleEndian, words); err != nil {
			return err
		}
	}

	raw := payload.Bytes()
	data, err := compress(raw, opts.Compression)
	if err != nil {
		return err
	}

	h := header{
		Version:     version,
		Compression: uint8(opts.Compression),
		BlockBits:   idx.BlockBits(),
		GroupShift:  shift,
		GroupCount:  uint32(len(groups)),
		RawSize:     uint32(len(raw)),
	}
	copy(h.Magic[:], magic)
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read deserializes an index from r, validating the header and rebuilding
// the index through the normal batch constructor.
func Read(r io.Reader) (*bitset.Index, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: short header: %w", ErrInvalidSnapshot, err)
	}
	if string(h.Magic[:]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidSnapshot, h.Magic[:])
	}
	if h.Version != version {
		return nil, &ErrUnsupportedVersion{Version: h.Version}
	}
	if h.BlockBits == 0 || h.GroupShift > 31 {
		return nil, fmt.Errorf("%w: bad partition geometry", ErrInvalidSnapshot)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw, err := decompress(data, Compression(h.Compression), h.RawSize)
	if err != nil {
		return nil, err
	}

	words := int((h.BlockBits + 63) / 64)
	entry := 4 + 8*words
	if len(raw) != int(h.GroupCount)*entry {
		return nil, fmt.Errorf("%w: payload size %d does not match %d groups", ErrInvalidSnapshot, len(raw), h.GroupCount)
	}

	// Re-derive the member values and rebuild; this revalidates the
	// domain instead of trusting the file's bits blindly.
	var values []core.ID
	for i := 0; i < int(h.GroupCount); i++ {
		rec := raw[i*entry:]
		g := binary.LittleEndian.Uint32(rec)
		for w := 0; w < words; w++ {
			word := binary.LittleEndian.Uint64(rec[4+8*w:])
			for word != 0 {
				k := uint32(w*64) + uint32(bits.TrailingZeros64(word))
				values = append(values, core.ID(g)<<h.GroupShift|core.ID(k))
				word &= word - 1 // clear the rightmost set bit
			}
		}
	}

	idx, err := bitset.Build(values, func(o *bitset.Options) {
		o.GroupShift = h.GroupShift
		o.BlockBits = h.BlockBits
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return idx, nil
}

// Save writes idx to the named file.
func Save(path string, idx *bitset.Index, optFns ...func(*Options)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, idx, optFns...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Open reads an index from the named file.
func Open(path string) (*bitset.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func compress(raw []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return raw, nil
	case CompressionLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil
	default:
		return nil, &ErrUnknownCompression{Compression: uint8(c)}
	}
}

func decompress(data []byte, c Compression, rawSize uint32) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		raw := make([]byte, 0, rawSize)
		buf := bytes.NewBuffer(raw)
		zr := lz4.NewReader(bytes.NewReader(data))
		if _, err := io.Copy(buf, zr); err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrInvalidSnapshot, err)
		}
		return buf.Bytes(), nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		raw, err := dec.DecodeAll(data, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrInvalidSnapshot, err)
		}
		return raw, nil
	default:
		return nil, &ErrUnknownCompression{Compression: uint8(c)}
	}
}

