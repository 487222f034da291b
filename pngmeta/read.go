package pngmeta

import "bytes"

// TextEntry is one keyword/value pair read back from a text chunk.
type TextEntry struct {
	Keyword string
	Value   string
}

// TextEntries returns every iTXt and tEXt pair in the file, in chunk order.
// Compressed iTXt payloads are skipped; this package never writes them.
func TextEntries(png []byte) ([]TextEntry, error) {
	chunks, err := parseChunks(png)
	if err != nil {
		return nil, err
	}
	var entries []TextEntry
	for _, c := range chunks {
		switch c.typ {
		case "iTXt":
			if e, ok := parseITXt(c.data); ok {
				entries = append(entries, e)
			}
		case "tEXt":
			if i := bytes.IndexByte(c.data, 0x00); i > 0 {
				entries = append(entries, TextEntry{
					Keyword: string(c.data[:i]),
					Value:   string(c.data[i+1:]),
				})
			}
		}
	}
	return entries, nil
}

// Text returns the value of the first text chunk carrying the given keyword.
func Text(png []byte, keyword string) (string, bool) {
	entries, err := TextEntries(png)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.Keyword == keyword {
			return e.Value, true
		}
	}
	return "", false
}

// parseITXt splits an iTXt payload into keyword and UTF-8 value, skipping
// the compression flag/method and the language and translated-keyword
// fields this package always leaves empty.
func parseITXt(data []byte) (TextEntry, bool) {
	i := bytes.IndexByte(data, 0x00)
	if i <= 0 || i+2 >= len(data) {
		return TextEntry{}, false
	}
	keyword := string(data[:i])
	if data[i+1] != 0 {
		return TextEntry{}, false // compressed payload
	}
	rest := data[i+3:]
	j := bytes.IndexByte(rest, 0x00)
	if j < 0 {
		return TextEntry{}, false
	}
	rest = rest[j+1:]
	k := bytes.IndexByte(rest, 0x00)
	if k < 0 {
		return TextEntry{}, false
	}
	return TextEntry{Keyword: keyword, Value: string(rest[k+1:])}, true
}
