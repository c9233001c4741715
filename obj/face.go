package obj

import (
	"fmt"
	"regexp"
	"strconv"
)

// Triangle is a face with its attributes copied out of the collections it
// referenced. TexCoords and Normals are meaningful only when the matching
// Has flag is set; a face never carries a partial attribute set.
type Triangle struct {
	Positions    [3]Position
	TexCoords    [3]TexCoord
	Normals      [3]Normal
	HasTexCoords bool
	HasNormals   bool
}

// v, v/t, v//n or v/t/n
const group = `([-+]?\d+)(?:/([-+]?\d*)(?:/([-+]?\d+))?)?`

var facePattern = regexp.MustCompile(`^f[ \t]+` + group + `[ \t]+` + group + `[ \t]+` + group + `[ \t]*$`)

// ResolveFace parses an "f" line and resolves its indices against the
// attributes defined so far. Texture and normal indices are resolved only
// when the matching collection is non-empty; an index omitted from the line
// then reads as 0 and fails to resolve.
func ResolveFace(line string, positions []Position, texcoords []TexCoord, normals []Normal) (Triangle, error) {
	m := facePattern.FindStringSubmatch(line)
	if m == nil {
		return Triangle{}, shapeError(line, "line does not define a triangular face")
	}

	// m[1+3*i] vertex, m[2+3*i] texture, m[3+3*i] normal
	var vi, ti, ni [3]int
	for i := range 3 {
		vi[i] = parseIndex(m[1+3*i])
		ti[i] = parseIndex(m[2+3*i])
		ni[i] = parseIndex(m[3+3*i])
	}

	var tri Triangle
	var err error

	if tri.Positions, err = resolve(line, "vertex", vi, positions); err != nil {
		return Triangle{}, err
	}

	if len(texcoords) > 0 {
		if tri.TexCoords, err = resolve(line, "texture", ti, texcoords); err != nil {
			return Triangle{}, err
		}
		tri.HasTexCoords = true
	}

	if len(normals) > 0 {
		if tri.Normals, err = resolve(line, "normal", ni, normals); err != nil {
			return Triangle{}, err
		}
		tri.HasNormals = true
	}

	return tri, nil
}

// ResolveIndex maps an OBJ index onto a collection of n elements. Positive
// indices are 1-based; anything else counts back from the end, so -1 is the
// last element and 0 lands one past it.
func ResolveIndex(index, n int) (int, bool) {
	i := n + index
	if index > 0 {
		i = index - 1
	}
	return i, i >= 0 && i < n
}

func resolve[T any](line, kind string, indices [3]int, items []T) (out [3]T, err error) {
	for k, index := range indices {
		i, ok := ResolveIndex(index, len(items))
		if !ok {
			return out, &ParseError{
				Kind:   IndexOutOfRange,
				Line:   line,
				Reason: fmt.Sprintf("%s index %d resolves to %d, have %d", kind, index, i, len(items)),
			}
		}
		out[k] = items[i]
	}
	return out, nil
}

// parseIndex reads a matched index token. Absent groups and values that
// overflow int32 read as 0.
func parseIndex(s string) int {
	i, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0
	}
	return int(i)
}
