// Package geom provides the normalized geometry behind the ring sketches.
//
// # Coordinates
//
// Every shape is built in normalized unit-square coordinates: (0, 0) is the
// top-left corner of the canvas, (1, 1) the bottom-right, and (0.5, 0.5) the
// center that all rings share. A [Point] is a gonum [r2.Vec].
//
// A [Mapper] converts normalized values to device pixels by multiplying with
// the canvas extent. It never clamps, so points displaced outside the unit
// square still map linearly:
//
//	m := geom.NewMapper(400, 400)
//	px, py := m.X(0.55), m.Y(0.5) // 220, 200
//	stroke := 0.001 * m.Width()   // 0.4
//
// # Regular Polygons
//
// [RegularPolygon] returns the n vertices of a regular polygon inscribed in a
// circle of radius r around the center. Vertex angles are derived from the
// integer vertex index, so the vertex count is exactly n regardless of
// floating-point rounding near 2π. [FillRegularPolygon] refills a caller-owned
// buffer so a sweep over many radii allocates once.
//
// # Radius Sweeps
//
// [Sweep] describes a half-open radius range [Start, Stop) walked in Step
// increments. [Sweep.Radii] derives each radius from its ring index instead of
// accumulating the step.
//
// [r2.Vec]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r2#Vec
package geom
