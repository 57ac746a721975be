package source

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/charmap"
)

var pngSignature = []byte{137, 80, 78, 71, 13, 10, 26, 10}

// ErrNotPNG is returned when the data does not start with the PNG signature
var ErrNotPNG = errors.New("not a valid PNG file")

// chunks larger than this are never text metadata we care about
const maxTextChunkSize = 64 << 20

// TextChunk is a keyword/text pair read from a tEXt, zTXt or iTXt chunk
type TextChunk struct {
	Type    string
	Keyword string
	Text    string
}

// ReadTextChunks returns the text chunks of a PNG stream in file order.
// Reading stops at the IEND chunk or at the end of the stream. Text chunks that cannot be decoded
// are skipped and a truncated or damaged stream ends the walk; in both cases the chunks read so far
// are returned together with the error.
func ReadTextChunks(r io.Reader) ([]TextChunk, error) {
	header := make([]byte, 8)
	_, err := io.ReadFull(r, header)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(header, pngSignature) {
		return nil, ErrNotPNG
	}

	retv := make([]TextChunk, 0)
	var skipped error

	for {
		var length uint32
		err = binary.Read(r, binary.BigEndian, &length)
		if err == io.EOF {
			break
		}
		if err != nil {
			return retv, errors.Join(skipped, truncated(err))
		}

		chunkType := make([]byte, 4)
		_, err = io.ReadFull(r, chunkType)
		if err != nil {
			return retv, errors.Join(skipped, truncated(err))
		}

		ctype := string(chunkType)
		switch ctype {
		case "tEXt", "zTXt", "iTXt":
			if length > maxTextChunkSize {
				return retv, errors.Join(skipped, fmt.Errorf("%s chunk too large: %d bytes", ctype, length))
			}
			chunkData := make([]byte, length)
			_, err = io.ReadFull(r, chunkData)
			if err != nil {
				return retv, errors.Join(skipped, truncated(err))
			}

			chunk, err := decodeTextChunk(ctype, chunkData)
			if err != nil {
				skipped = errors.Join(skipped, err)
			} else {
				retv = append(retv, chunk)
			}
		default:
			// skip the chunk data if it's not text
			_, err = io.CopyN(io.Discard, r, int64(length))
			if err != nil {
				return retv, errors.Join(skipped, truncated(err))
			}
		}

		// skip the CRC
		_, err = io.CopyN(io.Discard, r, 4)
		if err != nil {
			return retv, errors.Join(skipped, truncated(err))
		}

		if ctype == "IEND" {
			break
		}
	}

	return retv, skipped
}

// ErrTruncated is returned when the stream ends inside a chunk
var ErrTruncated = errors.New("truncated PNG stream")

func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}

func decodeTextChunk(ctype string, data []byte) (TextChunk, error) {
	keywordEnd := bytes.IndexByte(data, 0)
	if keywordEnd == -1 {
		return TextChunk{}, fmt.Errorf("malformed %s chunk", ctype)
	}

	retv := TextChunk{
		Type:    ctype,
		Keyword: latin1(data[:keywordEnd]),
	}
	rest := data[keywordEnd+1:]

	switch ctype {
	case "tEXt":
		retv.Text = latin1(rest)
	case "zTXt":
		// compression method byte, then the zlib stream
		if len(rest) < 1 {
			return TextChunk{}, errors.New("malformed zTXt chunk")
		}
		text, err := inflate(rest[1:])
		if err != nil {
			return TextChunk{}, fmt.Errorf("zTXt %q: %w", retv.Keyword, err)
		}
		retv.Text = latin1(text)
	case "iTXt":
		// compression flag, compression method, language tag\0, translated keyword\0, text
		if len(rest) < 2 {
			return TextChunk{}, errors.New("malformed iTXt chunk")
		}
		compressed := rest[0] == 1
		rest = rest[2:]
		for i := 0; i < 2; i++ {
			end := bytes.IndexByte(rest, 0)
			if end == -1 {
				return TextChunk{}, errors.New("malformed iTXt chunk")
			}
			rest = rest[end+1:]
		}
		if compressed {
			text, err := inflate(rest)
			if err != nil {
				return TextChunk{}, fmt.Errorf("iTXt %q: %w", retv.Keyword, err)
			}
			rest = text
		}
		retv.Text = string(rest)
	}
	return retv, nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxTextChunkSize))
}

// tEXt and zTXt are Latin-1, but many writers store UTF-8 in them anyway
func latin1(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}
