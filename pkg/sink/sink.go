package sink

import (
	"strings"

	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/scene"
)

// Supported output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatHTML, FormatJSON}

// ValidateFormat reports whether f is a supported format.
func ValidateFormat(f string) error {
	for _, known := range Formats {
		if f == known {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", f, strings.Join(Formats, ", "))
}

// Render renders s in the given format with default options.
func Render(s scene.Scene, format string) ([]byte, error) {
	switch format {
	case FormatHTML:
		return RenderHTML(s)
	case FormatJSON:
		return RenderJSON(s)
	default:
		return nil, ValidateFormat(format)
	}
}

// Ext returns the file extension for format, including the dot.
func Ext(format string) string {
	return "." + format
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
