package pngmeta

import (
	"encoding/binary"
	"errors"
)

var signature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

var (
	// ErrNotPNG means the input does not start with the PNG signature.
	ErrNotPNG = errors.New("pngmeta: not a PNG file")
	// ErrTruncated means a chunk declared more data than the input holds.
	ErrTruncated = errors.New("pngmeta: truncated chunk")
)

// chunk is one length/type/data/crc unit as read from the wire. The stored
// crc is carried through serialization untouched; only chunks this package
// creates get a freshly computed checksum.
type chunk struct {
	typ  string
	data []byte
	crc  uint32
}

// HasSignature reports whether data begins with the 8-byte PNG signature.
func HasSignature(data []byte) bool {
	if len(data) < len(signature) {
		return false
	}
	for i, b := range signature {
		if data[i] != b {
			return false
		}
	}
	return true
}

// parseChunks walks the chunk stream in a single pass, starting right after
// the signature. Chunk data aliases the input rather than copying it.
func parseChunks(data []byte) ([]chunk, error) {
	if !HasSignature(data) {
		return nil, ErrNotPNG
	}
	var chunks []chunk
	offset := len(signature)
	for offset < len(data) {
		if offset+8 > len(data) {
			return nil, ErrTruncated
		}
		length := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		end := offset + 8 + length + 4
		if end < offset || end > len(data) {
			return nil, ErrTruncated
		}
		chunks = append(chunks, chunk{
			typ:  string(data[offset+4 : offset+8]),
			data: data[offset+8 : offset+8+length],
			crc:  binary.BigEndian.Uint32(data[offset+8+length : end]),
		})
		offset = end
	}
	return chunks, nil
}

// serialize re-emits the signature followed by every chunk in wire order:
// length(4 BE) + type(4) + data + crc(4 BE). A parse/serialize round trip
// reproduces the input byte for byte.
func serialize(chunks []chunk) []byte {
	size := len(signature)
	for _, c := range chunks {
		size += 12 + len(c.data)
	}
	out := make([]byte, 0, size)
	out = append(out, signature...)
	for _, c := range chunks {
		var hdr [8]byte
		binary.BigEndian.PutUint32(hdr[:4], uint32(len(c.data)))
		copy(hdr[4:], c.typ)
		out = append(out, hdr[:]...)
		out = append(out, c.data...)
		var crc [4]byte
		binary.BigEndian.PutUint32(crc[:], c.crc)
		out = append(out, crc[:]...)
	}
	return out
}
