// Package sourcetest builds PNG files carrying text chunks for tests
package sourcetest

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// Chunk is a text chunk to embed. Type is one of "tEXt", "zTXt" or "iTXt" ("tEXt" when empty).
type Chunk struct {
	Type    string
	Keyword string
	Text    string
	// Raw replaces the encoded chunk body when set
	Raw []byte
}

// Text returns a tEXt chunk
func Text(keyword, text string) Chunk {
	return Chunk{Type: "tEXt", Keyword: keyword, Text: text}
}

// Parameters returns the tEXt chunk an A1111 style generator writes
func Parameters(text string) Chunk {
	return Text("parameters", text)
}

// Prompt returns the tEXt chunk ComfyUI writes for its prompt graph
func Prompt(graph string) Chunk {
	return Text("prompt", graph)
}

// PNG returns the bytes of a 1x1 PNG image with the chunks inserted after IHDR
func PNG(t testing.TB, chunks ...Chunk) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Gray{Y: 128})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	encoded := buf.Bytes()

	// signature (8) + IHDR length, type, data (13) and crc
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	var out bytes.Buffer
	out.Write(encoded[:ihdrEnd])
	for _, c := range chunks {
		writeChunk(t, &out, c)
	}
	out.Write(encoded[ihdrEnd:])
	return out.Bytes()
}

// WritePNG writes a PNG with the chunks to dir/name and returns its path
func WritePNG(t testing.TB, dir, name string, chunks ...Chunk) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PNG(t, chunks...), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func writeChunk(t testing.TB, w *bytes.Buffer, c Chunk) {
	t.Helper()

	ctype := c.Type
	if ctype == "" {
		ctype = "tEXt"
	}

	var data bytes.Buffer
	data.WriteString(c.Keyword)
	data.WriteByte(0)
	switch ctype {
	case "tEXt":
		data.WriteString(c.Text)
	case "zTXt":
		data.WriteByte(0)
		data.Write(deflate(t, c.Text))
	case "iTXt":
		// compressed, zlib, empty language tag and translated keyword
		data.Write([]byte{1, 0, 0, 0})
		data.Write(deflate(t, c.Text))
	default:
		t.Fatalf("unsupported chunk type %q", ctype)
	}

	body := data.Bytes()
	if c.Raw != nil {
		body = c.Raw
	}
	_ = binary.Write(w, binary.BigEndian, uint32(len(body)))
	crc := crc32.NewIEEE()
	w.WriteString(ctype)
	crc.Write([]byte(ctype))
	w.Write(body)
	crc.Write(body)
	_ = binary.Write(w, binary.BigEndian, crc.Sum32())
}

func deflate(t testing.TB, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write([]byte(text)); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	return buf.Bytes()
}
