// Package pngmeta embeds descriptive metadata into PNG files as standard
// ancillary text chunks, leaving pixel data and every other chunk untouched.
//
// Metadata is written as uncompressed iTXt chunks inserted immediately after
// the IHDR chunk. iTXt carries UTF-8, so titles and descriptions in any
// language survive; the older Latin-1-only tEXt form is read but never
// written.
package pngmeta

import "strings"

// Metadata holds the descriptive fields that can be attached to an image.
// Every field is optional; empty or whitespace-only fields are left out of
// the output entirely.
type Metadata struct {
	Title       string
	Author      string
	Description string
	Keywords    string
	Copyright   string
	Date        string
}

// textFields pairs each field with its registered PNG keyword, in the order
// chunks are emitted.
func (m Metadata) textFields() [][2]string {
	return [][2]string{
		{"Title", m.Title},
		{"Author", m.Author},
		{"Description", m.Description},
		{"Keywords", m.Keywords},
		{"Copyright", m.Copyright},
		{"Creation Time", m.Date},
	}
}

// Embed returns a copy of png with meta embedded as iTXt chunks immediately
// after the IHDR chunk. Embedding is best-effort: if png is not well-formed,
// the input is returned unchanged rather than risking a corrupt file.
func Embed(png []byte, meta Metadata) []byte {
	out, err := EmbedStrict(png, meta)
	if err != nil {
		return png
	}
	return out
}

// EmbedStrict is Embed without the fallback: a bad signature or truncated
// chunk is reported instead of swallowed.
func EmbedStrict(png []byte, meta Metadata) ([]byte, error) {
	var extra []chunk
	for _, f := range meta.textFields() {
		if strings.TrimSpace(f[1]) == "" {
			continue
		}
		extra = append(extra, itxtChunk(f[0], f[1]))
	}
	return insertAfterIHDR(png, extra)
}

// EmbedText embeds a single keyword/value pair as one iTXt chunk, with the
// same fallback contract as Embed. The standard fields go through Embed;
// this is for tool-specific records such as generation provenance.
func EmbedText(png []byte, keyword, value string) []byte {
	out, err := insertAfterIHDR(png, []chunk{itxtChunk(keyword, value)})
	if err != nil {
		return png
	}
	return out
}

// insertAfterIHDR splices extra chunks in right after the first IHDR chunk.
// Every original chunk passes through verbatim, stored CRC included.
func insertAfterIHDR(png []byte, extra []chunk) ([]byte, error) {
	chunks, err := parseChunks(png)
	if err != nil {
		return nil, err
	}
	out := make([]chunk, 0, len(chunks)+len(extra))
	inserted := false
	for _, c := range chunks {
		out = append(out, c)
		if !inserted && c.typ == "IHDR" {
			out = append(out, extra...)
			inserted = true
		}
	}
	return serialize(out), nil
}

// itxtChunk builds an international text chunk: keyword, null terminator,
// compression flag 0, compression method 0, empty language tag and empty
// translated keyword (each null-terminated), then the UTF-8 value.
func itxtChunk(keyword, value string) chunk {
	data := make([]byte, 0, len(keyword)+5+len(value))
	data = append(data, keyword...)
	data = append(data, 0x00)
	data = append(data, 0x00, 0x00) // uncompressed
	data = append(data, 0x00)       // language tag
	data = append(data, 0x00)       // translated keyword
	data = append(data, value...)

	sum := make([]byte, 0, 4+len(data))
	sum = append(sum, "iTXt"...)
	sum = append(sum, data...)
	return chunk{typ: "iTXt", data: data, crc: crc32sum(sum)}
}
