package units

import "math"

// Vec2 is a 2-D vector spanning the local-vertical axis (Y) and the
// velocity-vector axis projected onto the surface (X). Components carry
// whichever dimension the caller's quantity has (position, velocity,
// acceleration); the type is not parameterized by dimension to keep the
// arithmetic below usable for all three without generics boilerplate.
type Vec2 struct {
	X, Y float64
}

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Norm returns the Euclidean magnitude of v.
func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Dot returns the dot product of v and w.
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }
