package reader

import (
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// decoder attempts one character encoding; ok=false means try the next.
type decoder struct {
	name   string
	decode func(data []byte) (string, bool)
}

func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, bool) {
	return func(data []byte) (string, bool) {
		out, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		return string(out), true
	}
}

var decoders = map[string]decoder{
	"utf-8":      {name: "utf-8", decode: decodeUTF8},
	"latin-1":    {name: "latin-1", decode: decodeCharmap(charmap.ISO8859_1)},
	"cp1252":     {name: "cp1252", decode: decodeCharmap(charmap.Windows1252)},
	"iso-8859-1": {name: "iso-8859-1", decode: decodeCharmap(charmap.ISO8859_1)},
}

// Decode tries each named encoding in order; the first success wins. The
// fallback order is explicit so it can be tested independently of any file.
func Decode(data []byte, encodings []string) (string, string, error) {
	for _, name := range encodings {
		d, ok := decoders[name]
		if !ok {
			continue
		}
		if s, ok := d.decode(data); ok {
			return s, d.name, nil
		}
	}
	return "", "", eris.Wrapf(ErrDecoding, "tried %d encodings", len(encodings))
}
