package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// BBox is an axis-aligned rectangle in page coordinates with the origin at
// the top-left corner. Y grows downward, so Y0 is the top edge.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// NewBBox creates a bounding box from an origin and a size.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X0: x, Y0: y, X1: x + width, Y1: y + height}
}

// Width returns the horizontal extent
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{X: (b.X0 + b.X1) / 2, Y: (b.Y0 + b.Y1) / 2}
}

// IsZero reports whether all coordinates are zero.
func (b BBox) IsZero() bool {
	return b == BBox{}
}

// Union returns the smallest box containing both boxes. A zero box is
// treated as empty.
func (b BBox) Union(other BBox) BBox {
	if b.IsZero() {
		return other
	}
	if other.IsZero() {
		return b
	}
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Intersects checks if two bounding boxes overlap
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}
