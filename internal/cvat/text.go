package cvat

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidText marks label text that cannot be represented in an XML 1.0
// document.
var ErrInvalidText = errors.New("text not representable in XML")

func checkText(field, value string) error {
	if !utf8.ValidString(value) {
		return fmt.Errorf("cvat: %s %q: invalid UTF-8: %w", field, value, ErrInvalidText)
	}
	for _, r := range value {
		if !xmlChar(r) {
			return fmt.Errorf("cvat: %s %q: character %U: %w", field, value, r, ErrInvalidText)
		}
	}
	return nil
}

// xmlChar reports whether r is in the XML 1.0 Char production.
func xmlChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
