package main

import (
	"math"
	"slices"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/thedaneeffect/objbuf/internal/raster"
	"github.com/thedaneeffect/objbuf/obj"
)

type vec4 = mgl.Vec4

// model space; the camera orbits, the light does not
var light = vec3{0.4, 1, 0.7}

const ambient = 0.25

// indices are uint16, so a batch holds at most this many vertices
const max_batch_vertices = math.MaxUint16 / 3 * 3

type viewport struct {
	w      int
	h      int
	w_half float
	h_half float
}

type screen_triangle struct {
	v1, v2, v3 raster.Vertex
	depth      float
}

type renderer struct {
	shader      *ebiten.Shader
	view_matrix mat4
	proj_matrix mat4
	// viewport is used to convert normalized device coordinates to screen coordinates
	viewport viewport

	// statistics
	drawn_triangles int

	// the following are not required to be stored here,
	// they serve as buffers to reduce overall allocations.

	clipper   raster.Clipper
	triangles []screen_triangle
	vertices  []ebiten.Vertex
	indices   []uint16
}

func (r *renderer) set_viewport(w, h int) {
	r.viewport.w = w
	r.viewport.h = h
	r.viewport.w_half = float(w) / 2
	r.viewport.h_half = float(h) / 2
}

// shade returns one brightness per corner of tri.
func shade(tri obj.Triangle) (s [3]float) {
	if tri.HasNormals {
		for k, n := range tri.Normals {
			s[k] = raster.Lambert(n.Vec3(), light, ambient)
		}
		return
	}
	n := raster.FaceNormal(tri.Positions[0].Vec3(), tri.Positions[1].Vec3(), tri.Positions[2].Vec3())
	f := raster.Lambert(n, light, ambient)
	return [3]float{f, f, f}
}

func (r *renderer) push_mesh(mesh *obj.Mesh, model mat4) {
	// save us some calculations by doing this here instead of per point
	model_view_project := r.proj_matrix.Mul4(r.view_matrix).Mul4(model)

	for _, tri := range mesh.Triangles {
		shades := shade(tri)

		var v [3]raster.Vertex
		for k := range 3 {
			v[k].Pos = model_view_project.Mul4x1(tri.Positions[k].Vec3().Vec4(1))
			v[k].RGBA = vec4{shades[k], shades[k], shades[k], 1}
			if tri.HasTexCoords {
				// obj v runs up, texture rows run down
				v[k].UV = mgl.Vec2{tri.TexCoords[k][0], 1 - tri.TexCoords[k][1]}
			}
		}

		if !raster.OutOfBounds(v[0].Pos) && !raster.OutOfBounds(v[1].Pos) && !raster.OutOfBounds(v[2].Pos) {
			r.push_triangle(v[0], v[1], v[2])
			continue
		}

		points := r.clipper.Clip(v[0].Pos, v[1].Pos, v[2].Pos)

		p1 := v[0].Pos.Vec3()
		p2 := v[1].Pos.Vec3()
		p3 := v[2].Pos.Vec3()

		for i := 2; i < len(points); i++ {
			b1 := raster.Barycentric(p1, p2, p3, points[0].Vec3())
			b2 := raster.Barycentric(p1, p2, p3, points[i-1].Vec3())
			b3 := raster.Barycentric(p1, p2, p3, points[i].Vec3())

			r.push_triangle(
				raster.Interpolate(v[0], v[1], v[2], b1),
				raster.Interpolate(v[0], v[1], v[2], b2),
				raster.Interpolate(v[0], v[1], v[2], b3),
			)
		}
	}
}

func (r *renderer) push_triangle(v1, v2, v3 raster.Vertex) {
	r.triangles = append(r.triangles, screen_triangle{
		v1:    v1,
		v2:    v2,
		v3:    v3,
		depth: v1.Pos.W() + v2.Pos.W() + v3.Pos.W(),
	})
}

func (r *renderer) project(v raster.Vertex) (out ebiten.Vertex) {
	// perspective divide (clip -> ndc)
	inv_w := 1.0 / v.Pos.W()
	x := v.Pos.X() * inv_w
	y := v.Pos.Y() * inv_w

	// ndc to screen space
	out.DstX = raster.ViewportTransform(x, r.viewport.w_half)
	out.DstY = float(r.viewport.h) - raster.ViewportTransform(y, r.viewport.h_half)

	// perspective correction, undone per pixel by the shader
	out.SrcX = v.UV.X() * inv_w
	out.SrcY = v.UV.Y() * inv_w
	out.ColorR = v.RGBA.X() * inv_w
	out.ColorG = v.RGBA.Y() * inv_w
	out.ColorB = v.RGBA.Z() * inv_w
	out.ColorA = v.RGBA.W() * inv_w
	out.Custom3 = inv_w
	return
}

func (r *renderer) draw(texture, target *ebiten.Image) {
	// no depth buffer: paint far to near
	slices.SortFunc(r.triangles, func(a, b screen_triangle) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})

	r.drawn_triangles = 0
	for _, t := range r.triangles {
		r1 := r.project(t.v1)
		r2 := r.project(t.v2)
		r3 := r.project(t.v3)

		// 2d cross product, screen y points down
		dx12 := r2.DstX - r1.DstX
		dy12 := r2.DstY - r1.DstY
		dx13 := r3.DstX - r1.DstX
		dy13 := r3.DstY - r1.DstY

		// back-face culling
		if dx12*dy13-dx13*dy12 >= 0 {
			continue
		}

		if len(r.vertices)+3 > max_batch_vertices {
			r.flush(texture, target)
		}

		first_index := uint16(len(r.vertices))
		r.vertices = append(r.vertices, r1, r2, r3)
		r.indices = append(r.indices, first_index, first_index+1, first_index+2)
		r.drawn_triangles++
	}
	r.flush(texture, target)
	r.triangles = r.triangles[:0]
}

func (r *renderer) flush(texture, target *ebiten.Image) {
	if len(r.vertices) == 0 {
		return
	}
	target.DrawTrianglesShader(r.vertices, r.indices, r.shader, &ebiten.DrawTrianglesShaderOptions{
		Images: [4]*ebiten.Image{
			texture,
		},
		AntiAlias: false,
	})
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}
