package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"time"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/thedaneeffect/objbuf/obj"
)

const (
	window_width  = 1024
	window_height = 768
	window_aspect = float(window_width) / float(window_height)
)

type (
	float = float32
	vec3  = mgl.Vec3
	mat4  = mgl.Mat4
)

var shader_src = `
//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, rgba vec4, custom vec4) vec4 {
	src_origin := imageSrc0Origin()

	// atlas -> texture space
	texel := src - src_origin

	// perspective divide
	if custom.w != 0.0 {
		texel /= custom.w
		rgba /= custom.w
	}

	// scale uv to pixels, wrapping like a repeat sampler
	texel = fract(texel) * imageSrc0Size()

	// move back to atlas space
	texel += src_origin

	return imageSrc0At(texel) * rgba
}
`

var skip_invalid = flag.Bool("skip-invalid", false, "skip lines that fail to parse")
var concurrent = flag.Bool("concurrent", false, "parse attribute and face lines in parallel")

const texture_size = 128

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] mesh.obj\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	mesh, err := load_mesh(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s: %d triangles", flag.Arg(0), len(mesh.Triangles))

	shader, err := ebiten.NewShader([]byte(shader_src))
	if err != nil {
		log.Fatal(err)
	}

	radius := mesh.Radius()
	if radius == 0 {
		radius = 1
	}

	g := &game{
		mesh:    mesh,
		center:  mesh.Center(),
		checker: checker_texture(),
		plain:   plain_texture(),
		camera: camera{
			pitch:    0.35,
			distance: radius * 2.5,
		},
		move_speed: radius / 20,
		ctx:        &renderer{shader: shader},
	}
	g.camera.update()

	ebiten.SetWindowTitle("objview - " + flag.Arg(0))
	ebiten.SetWindowSize(window_width, window_height)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func load_mesh(path string) (*obj.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts := obj.Options{SkipInvalid: *skip_invalid, Logger: log.Default()}
	if *concurrent {
		return obj.ParseConcurrent(context.Background(), f, opts)
	}
	return obj.Parse(f, opts)
}

func checker_texture() *ebiten.Image {
	const subdivisions = 8
	const tile_size = texture_size / subdivisions

	texture := ebiten.NewImage(texture_size, texture_size)
	texture.Fill(color.White)

	for row := range subdivisions {
		for col := range subdivisions {
			if (row+col)%2 == 0 {
				continue
			}
			x := float(col * tile_size)
			y := float(row * tile_size)
			vector.DrawFilledRect(texture, x, y, tile_size, tile_size, color.RGBA{90, 90, 90, 255}, false)
		}
	}
	return texture
}

func plain_texture() *ebiten.Image {
	texture := ebiten.NewImage(texture_size, texture_size)
	texture.Fill(color.White)
	return texture
}

type game struct {
	ctx        *renderer
	mesh       *obj.Mesh
	center     vec3
	checker    *ebiten.Image
	plain      *ebiten.Image
	textured   bool
	frametime  time.Duration
	camera     camera
	move_speed float
}

// camera orbits `target` at `distance`.
type camera struct {
	pitch    float
	yaw      float
	distance float
	target   vec3

	drag_x   int
	drag_y   int
	dragging bool

	right   vec3
	forward vec3

	view_matrix mat4
}

func (c *camera) update() {
	rotation := mgl.HomogRotate3DX(c.pitch).Mul4(mgl.HomogRotate3DY(c.yaw))
	c.right = rotation.Row(0).Vec3()
	c.forward = rotation.Row(2).Vec3().Mul(-1)

	c.view_matrix = mgl.Translate3D(0, 0, -c.distance).
		Mul4(rotation).
		Mul4(mgl.Translate3D(-c.target.X(), -c.target.Y(), -c.target.Z()))
}

func (g *game) Layout(outerWidth, outerHeight int) (int, int) {
	return window_width, window_height
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.textured = !g.textured
	}

	if _, yoff := ebiten.Wheel(); yoff != 0 {
		g.camera.distance = max(g.camera.distance*float(1-yoff/10), 0.01)
	}

	c := &g.camera

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		cx, cy := ebiten.CursorPosition()

		// doing the logic in the next update ensures we don't get some crazy snapping
		if !c.dragging {
			c.dragging = true
		} else {
			c.pitch = mgl.Clamp(c.pitch+float(cy-c.drag_y)/100.0, -math.Pi/2, math.Pi/2)
			c.yaw += float(cx-c.drag_x) / 100.0
		}

		c.drag_x = cx
		c.drag_y = cy
	} else {
		c.dragging = false
	}

	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		c.target = c.target.Add(c.forward.Mul(g.move_speed))
	} else if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		c.target = c.target.Sub(c.forward.Mul(g.move_speed))
	}

	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		c.target = c.target.Add(c.right.Mul(g.move_speed))
	} else if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		c.target = c.target.Sub(c.right.Mul(g.move_speed))
	}

	c.update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	defer func(t time.Time) {
		ft := time.Since(t)
		if g.frametime == 0 {
			g.frametime = ft
		} else {
			g.frametime += (ft - g.frametime) / 2
		}
	}(time.Now())

	ctx := g.ctx

	w := screen.Bounds().Dx()
	h := screen.Bounds().Dy()
	ctx.set_viewport(w, h)

	far := max(g.camera.distance*4, 100)
	ctx.proj_matrix = mgl.Perspective(mgl.DegToRad(60), window_aspect, far/10000, far)
	ctx.view_matrix = g.camera.view_matrix

	screen.Fill(color.RGBA{130, 130, 130, 255})

	// model space is recentred so the camera orbits the mesh
	model := mgl.Translate3D(-g.center.X(), -g.center.Y(), -g.center.Z())
	ctx.push_mesh(g.mesh, model)

	texture := g.plain
	if g.textured {
		texture = g.checker
	}
	ctx.draw(texture, screen)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  Ft: %v", ebiten.ActualFPS(), g.frametime), 0, 0)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Triangles: %d/%d", ctx.drawn_triangles, len(g.mesh.Triangles)), 0, 14)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Eye: %.2f, %.2f  Dist: %.2f", g.camera.pitch, g.camera.yaw, g.camera.distance), 0, 28)
	ebitenutil.DebugPrintAt(screen, "drag: orbit  wheel: zoom  wasd: pan  space: checker", 0, 42)
}
