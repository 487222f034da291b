package main

import (
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/genai"
)

// minimalPNG builds the smallest valid PNG: signature + IHDR + IDAT + IEND.
func minimalPNG() []byte {
	var buf []byte
	buf = append(buf, 0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A)
	ihdrData := []byte{
		0, 0, 0, 1, // width
		0, 0, 0, 1, // height
		8, 0, 0, 0, 0, // bit depth, color type, compression, filter, interlace
	}
	buf = appendChunk(buf, "IHDR", ihdrData)
	idatData := []byte{
		0x78, 0x01, 0x01, 0x02, 0x00, 0xFD, 0xFF,
		0x00, 0x00,
		0x00, 0x01, 0x00, 0x01,
	}
	buf = appendChunk(buf, "IDAT", idatData)
	buf = appendChunk(buf, "IEND", nil)
	return buf
}

func appendChunk(buf []byte, typ string, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	buf = append(buf, typ...)
	buf = append(buf, data...)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	crcBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(crcBytes, crc.Sum32())
	buf = append(buf, crcBytes...)
	return buf
}

// writeTestSession marshals a session into dir under name and returns the path.
func writeTestSession(t *testing.T, dir, name string, sess sessionData) string {
	t.Helper()
	raw, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("write session: %v", err)
	}
	return path
}

func userTurn(text string) *genai.Content {
	return &genai.Content{Role: "user", Parts: []*genai.Part{{Text: text}}}
}

func modelImageTurn(text string, images int) *genai.Content {
	c := &genai.Content{Role: "model"}
	if text != "" {
		c.Parts = append(c.Parts, &genai.Part{Text: text})
	}
	for i := 0; i < images; i++ {
		c.Parts = append(c.Parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("img")},
		})
	}
	return c
}
