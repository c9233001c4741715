package obj

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// Mesh holds every attribute of a document in definition order together
// with its resolved triangles.
type Mesh struct {
	Positions []Position
	TexCoords []TexCoord
	Normals   []Normal
	Triangles []Triangle
}

// Options controls how a document is assembled.
type Options struct {
	// SkipInvalid drops lines that fail to parse instead of aborting.
	SkipInvalid bool
	// Logger receives one message per skipped line. Nil discards them.
	Logger *log.Logger
	// Workers bounds ParseConcurrent. Zero means GOMAXPROCS.
	Workers int
}

func (o Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// maxLineLength allows long face or comment lines from exporters.
const maxLineLength = 1 << 20

type lineKind int

const (
	blankLine = lineKind(iota)
	positionLine
	normalLine
	texcoordLine
	faceLine
	unknownLine
)

// directives that are recognised but carry nothing this package builds
var ignored = map[string]bool{
	"o":      true,
	"g":      true,
	"s":      true,
	"l":      true,
	"vp":     true,
	"mtllib": true,
	"usemtl": true,
}

func classify(line string) lineKind {
	if line == "" || strings.HasPrefix(line, "#") {
		return blankLine
	}
	token, _, _ := strings.Cut(line, " ")
	token, _, _ = strings.Cut(token, "\t")
	switch token {
	case "v":
		return positionLine
	case "vn":
		return normalLine
	case "vt":
		return texcoordLine
	case "f":
		return faceLine
	}
	if ignored[token] {
		return blankLine
	}
	return unknownLine
}

// Parse reads an OBJ document one line at a time. Each face is resolved
// against the attributes defined above it.
func Parse(r io.Reader, opts Options) (*Mesh, error) {
	mesh := &Mesh{}
	n := 0
	err := scanLines(r, func(line string) error {
		n++
		if err := mesh.add(classify(line), line); err != nil {
			if !opts.SkipInvalid {
				return fmt.Errorf("line %d: %w", n, err)
			}
			opts.logf("line %d: skipped: %v", n, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mesh, nil
}

func scanLines(r io.Reader, fn func(line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		if err := fn(strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read obj: %w", err)
	}
	return nil
}

func (m *Mesh) add(kind lineKind, line string) error {
	switch kind {
	case positionLine:
		p, err := ParsePosition(line)
		if err != nil {
			return err
		}
		m.Positions = append(m.Positions, p)
	case normalLine:
		n, err := ParseNormal(line)
		if err != nil {
			return err
		}
		m.Normals = append(m.Normals, n)
	case texcoordLine:
		t, err := ParseTexCoord(line)
		if err != nil {
			return err
		}
		m.TexCoords = append(m.TexCoords, t)
	case faceLine:
		tri, err := ResolveFace(line, m.Positions, m.TexCoords, m.Normals)
		if err != nil {
			return err
		}
		m.Triangles = append(m.Triangles, tri)
	case unknownLine:
		return shapeError(line, "unsupported directive")
	}
	return nil
}

// Bounds returns the component-wise extent of the positions.
func (m *Mesh) Bounds() (lo, hi mgl.Vec3) {
	if len(m.Positions) == 0 {
		return
	}
	inf := float32(math.Inf(1))
	lo = mgl.Vec3{inf, inf, inf}
	hi = lo.Mul(-1)
	for _, p := range m.Positions {
		for i := range 3 {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return
}

// Center is the midpoint of Bounds.
func (m *Mesh) Center() mgl.Vec3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Mul(0.5)
}

// Radius is the distance from Center to the farthest position.
func (m *Mesh) Radius() float32 {
	c := m.Center()
	var r float32
	for _, p := range m.Positions {
		r = max(r, p.Vec3().Sub(c).Len())
	}
	return r
}
