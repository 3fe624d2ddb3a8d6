// Package scatter builds 3D scatterplot scenes from numeric data.
//
// [Build] is a pure function: it normalizes three numeric axes into a cube
// of the requested dimensions, maps an optional categorical variable to
// colours through a palette function and lays out points, axes, axis labels
// and a colour legend as a [scene.Scene]. It performs no I/O and has no
// state; identical inputs (with a deterministic palette) produce identical
// scenes.
//
// # Scene Structure
//
//	a-entity#rig
//	└── a-camera
//	    ├── a-cursor
//	    └── a-text#label-view          (hidden; shows the clicked point)
//	a-entity#plot                      (at PlotBase)
//	├── a-entity#axis-x / -y / -z      (line + a-text label [+ ticks])
//	├── a-sphere.point × n             (click/mouseleave bindings; ids unique)
//	└── a-entity#legend                (only with more than one level)
//	    ├── a-entity.legend-entry × levels
//	    └── a-entity.legend-title
//
// # Normalization
//
// Each axis is min-max scaled to [0, 1] and multiplied by its dimension.
// Rows with a missing coordinate (NaN, ±Inf) are not drawn and take no part
// in the range of any axis, so the drawn points always span every axis. An axis with zero range has no
// meaningful normalization and is rejected with an [InvalidInputError].
//
// # Levels
//
// Colour levels are sorted naturally: values that parse as numbers come
// first in numeric order, then the rest in string order.
//
// # Errors
//
// All failures are reported before any entity is built:
//
//   - [EmptyInputError]: no rows
//   - [ShapeMismatchError]: a per-row sequence has the wrong length
//   - [InvalidInputError]: degenerate axis, bad dimension, size or label
//   - [PaletteSizeError]: the palette returned too few colours
package scatter
