// Package pkg provides the libraries behind vrplot, a builder of WebVR
// scatterplots.
//
// # Overview
//
// vrplot turns a table into an A-Frame scene: every row becomes a sphere in
// a cube whose edges span the observed range of three numeric columns.
// Scenes can be written as standalone HTML pages or in a structural JSON
// form, and served over HTTP.
//
// # Architecture
//
// The typical data flow:
//
//	CSV / JSON file, URL or inline data
//	         ↓
//	    [dataset] (typed columns)
//	         ↓
//	    [scatter] layout  or  [delegate] component scene
//	         ↓
//	    [scene] (A-Frame entity tree)
//	         ↓
//	    [sink] (HTML page, JSON)
//
// # Quick Start
//
//	ds, _ := dataset.Load("iris.csv")
//	x, _ := ds.Numeric("Sepal.Length")
//	y, _ := ds.Numeric("Sepal.Width")
//	z, _ := ds.Numeric("Petal.Length")
//	species, _ := ds.Strings("Species")
//
//	s, err := scatter.Build(scatter.Input{
//	    X:          scatter.Axis{Label: "Sepal.Length", Values: x},
//	    Y:          scatter.Axis{Label: "Sepal.Width", Values: y},
//	    Z:          scatter.Axis{Label: "Petal.Length", Values: z},
//	    Colour:     &scatter.Categorical{Label: "Species", Values: species},
//	    Palette:    palette.Viridis,
//	    Dimensions: [3]float64{1, 1, 1},
//	})
//	page, _ := sink.RenderHTML(s)
//
// # Main Packages
//
// ## Domain
//
// [scene] - A-Frame entity tree with typed geometry, material, text and
// interaction bindings.
//
// [scatter] - Scatterplot layout: normalization, colour mapping, axes,
// ticks, legend and the camera rig with its label view.
//
// [delegate] - Scenes that hand layout to the aframe-scatterplot component,
// embedding the dataset as a JSON data URI.
//
// [palette] - Palette functions mapping a count to that many colours.
//
// [dataset] - Tables read from CSV or JSON with numeric and string columns.
//
// ## Output
//
// [sink] - HTML and JSON renderers for scenes.
//
// ## Infrastructure
//
// [pipeline] - The load → build → render pipeline shared by the CLI and the
// server, with artifact caching.
//
// [cache] - Artifact cache backends: file, Redis and null.
//
// [remote] - HTTP dataset fetching with retries and caching.
//
// [server] - HTTP server for built scenes.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Error codes shared across packages.
//
// # Testing
//
//	go test ./...
//	go test -run Example ./pkg/...
package pkg
