package source

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/text/encoding/unicode"
)

// ErrNoUserComment is returned when the EXIF data carries no UserComment
var ErrNoUserComment = errors.New("no EXIF UserComment")

// ReadUserComment decodes the EXIF UserComment of a JPEG stream. Generators that cannot write
// PNG text chunks store the "parameters" text there.
func ReadUserComment(r io.Reader) (string, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return "", err
	}
	tag, err := x.Get(exif.UserComment)
	if err != nil {
		return "", ErrNoUserComment
	}
	return decodeUserComment(tag.Val)
}

// the first 8 bytes of a UserComment name its character code
func decodeUserComment(val []byte) (string, error) {
	if len(val) < 8 {
		return strings.TrimRight(string(val), "\x00"), nil
	}
	code, body := val[:8], val[8:]

	if bytes.HasPrefix(code, []byte("UNICODE")) {
		// big endian unless a BOM says otherwise
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		text, err := dec.Bytes(body)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(text), "\x00"), nil
	}
	return strings.TrimRight(string(body), "\x00 "), nil
}
