package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	"infopix/pngmeta"

	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

// ensurePNG returns the data unchanged if it is already PNG. Otherwise it
// decodes the image (JPEG, WebP) and re-encodes it as PNG so metadata can be
// embedded.
func ensurePNG(data []byte) ([]byte, error) {
	if pngmeta.HasSignature(data) {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode as PNG: %v", err)
	}
	return buf.Bytes(), nil
}

var supportedMimes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

func mimeFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := supportedMimes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported image format %q (supported: png, jpg, webp)", ext)
	}
	return mime, nil
}
