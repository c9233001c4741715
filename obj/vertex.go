package obj

import (
	"fmt"
	"regexp"
	"strconv"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// Position is a geometric vertex in model space.
type Position mgl.Vec3

// Normal is a shading direction. It is not normalized.
type Normal mgl.Vec3

// TexCoord is a (u, v) texture coordinate; both components are >= 0.
type TexCoord mgl.Vec2

func (p Position) Vec3() mgl.Vec3 { return mgl.Vec3(p) }
func (n Normal) Vec3() mgl.Vec3   { return mgl.Vec3(n) }
func (t TexCoord) Vec2() mgl.Vec2 { return mgl.Vec2(t) }

// decimal numbers must carry a fractional part: "1.0" matches, "1" does not.
const number = `([-+]?\d+\.\d+)`

var (
	positionPattern = regexp.MustCompile(`^v[ \t]+` + number + `[ \t]+` + number + `[ \t]+` + number + `[ \t]*$`)
	normalPattern   = regexp.MustCompile(`^vn[ \t]+` + number + `[ \t]+` + number + `[ \t]+` + number + `[ \t]*$`)
	texcoordPattern = regexp.MustCompile(`^vt[ \t]+` + number + `[ \t]+` + number + `[ \t]*$`)
)

// ParsePosition parses a "v x y z" line.
func ParsePosition(line string) (Position, error) {
	m := positionPattern.FindStringSubmatch(line)
	if m == nil {
		return Position{}, shapeError(line, "line does not define a geometric vertex")
	}
	return Position{parseComponent(m[1]), parseComponent(m[2]), parseComponent(m[3])}, nil
}

// ParseNormal parses a "vn x y z" line.
func ParseNormal(line string) (Normal, error) {
	m := normalPattern.FindStringSubmatch(line)
	if m == nil {
		return Normal{}, shapeError(line, "line does not define a vertex normal")
	}
	return Normal{parseComponent(m[1]), parseComponent(m[2]), parseComponent(m[3])}, nil
}

// ParseTexCoord parses a "vt u v" line. Negative components are rejected,
// not clamped.
func ParseTexCoord(line string) (TexCoord, error) {
	m := texcoordPattern.FindStringSubmatch(line)
	if m == nil {
		return TexCoord{}, shapeError(line, "line does not define a texture coordinate")
	}
	t := TexCoord{parseComponent(m[1]), parseComponent(m[2])}
	for i, name := range [...]string{"u", "v"} {
		if t[i] < 0 {
			return TexCoord{}, &ParseError{
				Kind:   NegativeTextureCoordinate,
				Line:   line,
				Reason: fmt.Sprintf("negative %q component %v", name, t[i]),
			}
		}
	}
	return t, nil
}

// parseComponent converts a token already matched by the grammar. A token
// that still fails conversion (float32 overflow) reads as 0.
func parseComponent(s string) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0
	}
	return float32(f)
}
