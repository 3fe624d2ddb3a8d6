package pipeline

import (
	"fmt"

	"github.com/matzehuels/vrplot/pkg/scene"
	"github.com/matzehuels/vrplot/pkg/sink"
)

// Render generates output artifacts in the requested formats.
func Render(s scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(s, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(s scene.Scene, format string, opts Options) ([]byte, error) {
	switch format {
	case sink.FormatHTML:
		return sink.RenderHTML(s, buildHTMLOptions(opts)...)
	case sink.FormatJSON:
		return sink.RenderJSON(s)
	default:
		return nil, sink.ValidateFormat(format)
	}
}

func buildHTMLOptions(opts Options) []sink.HTMLOption {
	var out []sink.HTMLOption
	if opts.Embedded {
		out = append(out, sink.WithEmbedded())
	}
	if opts.Background != "" {
		out = append(out, sink.WithBackground(opts.Background))
	}
	return out
}
