// Package raster holds the clip-space math used to put a mesh on screen.
package raster

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

type Vertex struct {
	Pos  mgl.Vec4 // clip space
	RGBA mgl.Vec4
	UV   mgl.Vec2
}

func interpolate4(v1, v2, v3 mgl.Vec4, f mgl.Vec3) (result mgl.Vec4) {
	result = result.Add(v1.Mul(f.X()))
	result = result.Add(v2.Mul(f.Y()))
	result = result.Add(v3.Mul(f.Z()))
	return
}

func interpolate2(v1, v2, v3 mgl.Vec2, f mgl.Vec3) (result mgl.Vec2) {
	result = result.Add(v1.Mul(f.X()))
	result = result.Add(v2.Mul(f.Y()))
	result = result.Add(v3.Mul(f.Z()))
	return
}

// Interpolate blends three vertices by barycentric weights f.
func Interpolate(v1, v2, v3 Vertex, f mgl.Vec3) (result Vertex) {
	result.Pos = interpolate4(v1.Pos, v2.Pos, v3.Pos, f)
	result.RGBA = interpolate4(v1.RGBA, v2.RGBA, v3.RGBA, f)
	result.UV = interpolate2(v1.UV, v2.UV, v3.UV, f)
	return
}

// OutOfBounds reports whether a clip-space point lies outside the view volume.
func OutOfBounds(a mgl.Vec4) bool {
	x, y, z, w := a.X(), a.Y(), a.Z(), a.W()
	return x < -w || x > w || y < -w || y > w || z < -w || z > w
}

// ViewportTransform maps a normalized device coordinate onto [0, 2*half].
func ViewportTransform(ndc, half float32) float32 {
	return half*ndc + half
}

type plane struct {
	origin mgl.Vec4
	normal mgl.Vec4
}

// test determines if `v` is in front of the plane.
func (p plane) test(v mgl.Vec4) bool {
	return v.Sub(p.origin).Dot(p.normal) > 0
}

// intersection returns the point of contact of a line segment between a->b to our plane.
func (p plane) intersection(a, b mgl.Vec4) mgl.Vec4 {
	u := b.Sub(a)
	w := a.Sub(p.origin)
	d := p.normal.Dot(u)
	n := -p.normal.Dot(w)
	return a.Add(u.Mul(n / d))
}

var clipPlanes = [...]plane{
	{origin: mgl.Vec4{1, 0, 0, 1}, normal: mgl.Vec4{-1, 0, 0, 1}}, // right
	{origin: mgl.Vec4{-1, 0, 0, 1}, normal: mgl.Vec4{1, 0, 0, 1}}, // left
	{origin: mgl.Vec4{0, 1, 0, 1}, normal: mgl.Vec4{0, -1, 0, 1}}, // bottom
	{origin: mgl.Vec4{0, -1, 0, 1}, normal: mgl.Vec4{0, 1, 0, 1}}, // top
	{origin: mgl.Vec4{0, 0, 1, 1}, normal: mgl.Vec4{0, 0, -1, 1}}, // front
	{origin: mgl.Vec4{0, 0, -1, 1}, normal: mgl.Vec4{0, 0, 1, 1}}, // back
}

// Clipper clips triangles against the view volume. The zero value is ready
// to use; a Clipper must not be shared between goroutines.
type Clipper struct {
	in, out [9]mgl.Vec4 // a triangle clipped by six planes has at most 9 points
}

// Clip returns the polygon left of p1, p2, p3 after clipping, as a fan
// around its first point. The slice is reused by the next call.
// https://en.wikipedia.org/wiki/Sutherland-Hodgman_algorithm
func (c *Clipper) Clip(p1, p2, p3 mgl.Vec4) []mgl.Vec4 {
	output := append(c.out[:0], p1, p2, p3)
	for _, plane := range clipPlanes {
		copy(c.in[:], output)
		input := c.in[:len(output)]
		output = c.out[:0]
		if len(input) == 0 {
			return nil
		}
		prev := input[len(input)-1]
		for _, point := range input {
			if plane.test(point) {
				if !plane.test(prev) {
					output = append(output, plane.intersection(prev, point))
				}
				output = append(output, point)
			} else if plane.test(prev) {
				output = append(output, plane.intersection(prev, point))
			}
			prev = point
		}
	}
	return output
}

// Barycentric returns the weights of p relative to triangle p1, p2, p3.
// https://en.wikipedia.org/wiki/Barycentric_coordinate_system
func Barycentric(p1, p2, p3, p mgl.Vec3) mgl.Vec3 {
	v0 := p2.Sub(p1)
	v1 := p3.Sub(p1)
	v2 := p.Sub(p1)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	d := d00*d11 - d01*d01
	v := (d11*d20 - d01*d21) / d
	w := (d00*d21 - d01*d20) / d
	u := 1 - v - w
	return mgl.Vec3{u, v, w}
}

// Lambert shades a surface with the given normal by a directional light,
// never darker than ambient. A zero normal gets full light.
func Lambert(normal, light mgl.Vec3, ambient float32) float32 {
	if normal.Len() == 0 {
		return 1
	}
	d := normal.Normalize().Dot(light.Normalize())
	return mgl.Clamp(ambient+(1-ambient)*d, ambient, 1)
}

// FaceNormal is the unnormalized normal of a counter-clockwise triangle.
func FaceNormal(p1, p2, p3 mgl.Vec3) mgl.Vec3 {
	return p2.Sub(p1).Cross(p3.Sub(p1))
}
