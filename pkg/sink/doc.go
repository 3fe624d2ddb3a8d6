// Package sink renders scenes to output formats.
//
// # Overview
//
// A "sink" transforms a [scene.Scene] into bytes that can be written to a
// file or served over HTTP:
//
//   - HTML: a standalone A-Frame document
//   - JSON: the structural scene form for external tools and caching
//
// # HTML Output
//
// [RenderHTML] builds the document as a golang.org/x/net/html node tree
// and serializes it with html.Render, which handles attribute escaping.
// Each entity becomes an element whose attributes come from
// [scene.Entity.Attributes]; the scene template becomes an
// environment="preset: ..." attribute on a-scene.
//
//	page, err := sink.RenderHTML(s, sink.WithEmbedded())
//
// # JSON Output
//
// [RenderJSON] writes the scene's JSON form, indented unless
// [WithJSONCompact] is given.
//
// # Formats
//
// [Render] dispatches on a format name; [Formats] lists the supported
// names and [Ext] their file extensions.
package sink
