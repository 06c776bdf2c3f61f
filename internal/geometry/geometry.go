// Package geometry holds the small set of planar helpers the engine needs:
// distances, segment proximity and box containment.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position on the drawing surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (p Point) vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	v := r2.Add(p.vec(), q.vec())
	return Point{X: v.X, Y: v.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	v := r2.Sub(p.vec(), q.vec())
	return Point{X: v.X, Y: v.Y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a.vec(), b.vec()))
}

// OnSegment reports whether p lies on the segment ab within tolerance.
//
// The test compares the length of ab with the length of the detour through p.
// It is an approximation: the accepted band is an ellipse with foci a and b,
// so it is much narrower near the endpoints than in the middle.
func OnSegment(a, b, p Point, tolerance float64) bool {
	offset := Distance(a, b) - (Distance(a, p) + Distance(b, p))
	return math.Abs(offset) < tolerance
}

// SegmentDistance returns the shortest distance from p to the segment ab.
func SegmentDistance(a, b, p Point) float64 {
	ab := r2.Sub(b.vec(), a.vec())
	lenSq := r2.Dot(ab, ab)
	if lenSq == 0 {
		return Distance(a, p)
	}
	t := r2.Dot(r2.Sub(p.vec(), a.vec()), ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	proj := r2.Add(a.vec(), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p.vec(), proj))
}

// Within reports whether v lies in the closed band [target-tolerance, target+tolerance].
func Within(v, target, tolerance float64) bool {
	return v >= target-tolerance && v <= target+tolerance
}

// Box is an axis-aligned box with ordered bounds.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NormalizedBox builds a Box from a corner and signed extents. Negative
// width or height describe a drag towards the origin.
func NormalizedBox(x, y, width, height float64) Box {
	return Box{
		MinX: math.Min(x, x+width),
		MinY: math.Min(y, y+height),
		MaxX: math.Max(x, x+width),
		MaxY: math.Max(y, y+height),
	}
}

// Width returns the horizontal extent.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether p is inside b, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ContainsOpen reports whether p is strictly inside b.
func (b Box) ContainsOpen(p Point) bool {
	return p.X > b.MinX && p.X < b.MaxX && p.Y > b.MinY && p.Y < b.MaxY
}
