package obj

import (
	"errors"
	"testing"
)

var cubePositions = []string{
	"v 1.000000 1.000000 -1.000000",
	"v 1.000000 -1.000000 -1.000000",
	"v 1.000000 1.000000 1.000000",
	"v 1.000000 -1.000000 1.000000",
	"v -1.000000 1.000000 -1.000000",
	"v -1.000000 -1.000000 -1.000000",
	"v -1.000000 1.000000 1.000000",
	"v -1.000000 -1.000000 1.000000",
}

var cubeNormals = []string{
	"vn -0.0000 1.0000 -0.0000",
	"vn -0.0000 -0.0000 1.0000",
	"vn -1.0000 -0.0000 -0.0000",
	"vn -0.0000 -1.0000 -0.0000",
	"vn 1.0000 -0.0000 -0.0000",
	"vn -0.0000 -0.0000 -1.0000",
}

var cubeTexCoords = []string{
	"vt 0.625000 0.500000",
	"vt 0.375000 0.500000",
	"vt 0.625000 0.750000",
	"vt 0.375000 0.750000",
	"vt 0.875000 0.500000",
	"vt 0.625000 0.250000",
	"vt 0.125000 0.500000",
	"vt 0.375000 0.250000",
	"vt 0.875000 0.750000",
	"vt 0.625000 1.000000",
	"vt 0.625000 0.000000",
	"vt 0.375000 0.000000",
	"vt 0.375000 1.000000",
	"vt 0.125000 0.750000",
}

func parseAll[T any](t *testing.T, lines []string, parse func(string) (T, error)) []T {
	t.Helper()
	out := make([]T, 0, len(lines))
	for _, line := range lines {
		v, err := parse(line)
		if err != nil {
			t.Fatalf("%q: %v", line, err)
		}
		out = append(out, v)
	}
	return out
}

type cube struct {
	positions []Position
	normals   []Normal
	texcoords []TexCoord
}

func newCube(t *testing.T) cube {
	return cube{
		positions: parseAll(t, cubePositions, ParsePosition),
		normals:   parseAll(t, cubeNormals, ParseNormal),
		texcoords: parseAll(t, cubeTexCoords, ParseTexCoord),
	}
}

func TestResolveFaceCube(t *testing.T) {
	c := newCube(t)

	tri, err := ResolveFace("f 5/5/1 3/3/1 1/1/1", c.positions, c.texcoords, c.normals)
	if err != nil {
		t.Fatal(err)
	}

	want := Triangle{
		Positions:    [3]Position{c.positions[4], c.positions[2], c.positions[0]},
		TexCoords:    [3]TexCoord{c.texcoords[4], c.texcoords[2], c.texcoords[0]},
		Normals:      [3]Normal{c.normals[0], c.normals[0], c.normals[0]},
		HasTexCoords: true,
		HasNormals:   true,
	}
	if tri != want {
		t.Errorf("got %+v\nwant %+v", tri, want)
	}
}

func TestResolveFacePositiveIndices(t *testing.T) {
	positions := []Position{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	tri, err := ResolveFace("f 1 2 3", positions, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tri.Positions != [3]Position(positions) {
		t.Errorf("positions = %v", tri.Positions)
	}
	if tri.HasTexCoords || tri.HasNormals {
		t.Errorf("unexpected attributes: %+v", tri)
	}
}

func TestResolveFaceRelativeIndices(t *testing.T) {
	c := newCube(t)

	tri, err := ResolveFace("f -1 -2 -8", c.positions, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := [3]Position{c.positions[7], c.positions[6], c.positions[0]}
	if tri.Positions != want {
		t.Errorf("positions = %v, want %v", tri.Positions, want)
	}

	tri, err = ResolveFace("f -1/-1/-1 -2/-14/-6 1/1/1", c.positions, c.texcoords, c.normals)
	if err != nil {
		t.Fatal(err)
	}
	if tri.TexCoords != [3]TexCoord{c.texcoords[13], c.texcoords[0], c.texcoords[0]} {
		t.Errorf("texcoords = %v", tri.TexCoords)
	}
	if tri.Normals != [3]Normal{c.normals[5], c.normals[0], c.normals[0]} {
		t.Errorf("normals = %v", tri.Normals)
	}
}

func TestResolveFaceGroupShapes(t *testing.T) {
	c := newCube(t)

	tests := []struct {
		line         string
		texcoords    []TexCoord
		normals      []Normal
		hasTexCoords bool
		hasNormals   bool
	}{
		{"f 1 2 3", nil, nil, false, false},
		{"f 1/1 2/2 3/3", c.texcoords, nil, true, false},
		{"f 1//1 2//2 3//3", nil, c.normals, false, true},
		{"f 1/1/1 2/2/2 3/3/3", c.texcoords, c.normals, true, true},
		// collections not supplied: indices on the line are ignored
		{"f 1/1/1 2/2/2 3/3/3", nil, nil, false, false},
		{"f  1/1/1\t2/2/2 3/3/3 ", c.texcoords, c.normals, true, true},
	}
	for _, tt := range tests {
		tri, err := ResolveFace(tt.line, c.positions, tt.texcoords, tt.normals)
		if err != nil {
			t.Fatalf("%q: %v", tt.line, err)
		}
		if tri.HasTexCoords != tt.hasTexCoords || tri.HasNormals != tt.hasNormals {
			t.Errorf("%q: HasTexCoords=%v HasNormals=%v", tt.line, tri.HasTexCoords, tri.HasNormals)
		}
		if tri.Positions != [3]Position{c.positions[0], c.positions[1], c.positions[2]} {
			t.Errorf("%q: positions = %v", tt.line, tri.Positions)
		}
		if !tri.HasNormals && tri.Normals != [3]Normal{} {
			t.Errorf("%q: absent normals not zero: %v", tt.line, tri.Normals)
		}
	}
}

func TestResolveFaceRejects(t *testing.T) {
	c := newCube(t)

	lines := []string{
		"f 1 2",
		"f 1 2 3 4",
		"f 1.0 2.0 3.0",
		"f a b c",
		"f 1/2/3/4 2 3",
		"v 1.000000 1.000000 -1.000000",
		"fo 1 2 3",
		"",
	}
	for _, line := range lines {
		_, err := ResolveFace(line, c.positions, c.texcoords, c.normals)
		if !errors.Is(err, ErrLineShapeMismatch) {
			t.Errorf("ResolveFace(%q) err = %v, want line shape mismatch", line, err)
		}
	}
}

func TestResolveFaceOutOfRange(t *testing.T) {
	c := newCube(t)

	tests := []struct {
		line      string
		texcoords []TexCoord
		normals   []Normal
	}{
		{"f 9 1 2", nil, nil},
		{"f -9 1 2", nil, nil},
		// 0 resolves one past the end
		{"f 0 1 2", nil, nil},
		{"f 1/15 2/1 3/1", c.texcoords, nil},
		{"f 1//7 2//1 3//1", nil, c.normals},
		// texture slot omitted while texture coordinates exist
		{"f 1//1 2//1 3//1", c.texcoords, c.normals},
		// int32 overflow reads as 0
		{"f 99999999999 1 2", nil, nil},
	}
	for _, tt := range tests {
		_, err := ResolveFace(tt.line, c.positions, tt.texcoords, tt.normals)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("ResolveFace(%q) err = %v, want index out of range", tt.line, err)
		}
	}

	if _, err := ResolveFace("f 1 2 3", nil, nil, nil); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("empty positions: err = %v", err)
	}
}

func TestResolveFaceIdempotent(t *testing.T) {
	c := newCube(t)
	const line = "f 5/6/6 1/1/6 2/2/6"

	a, err := ResolveFace(line, c.positions, c.texcoords, c.normals)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ResolveFace(line, c.positions, c.texcoords, c.normals)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
}

func TestResolveFaceCopiesValues(t *testing.T) {
	positions := []Position{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	tri, err := ResolveFace("f 1 2 3", positions, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	positions[0] = Position{}
	if tri.Positions[0] != (Position{1, 2, 3}) {
		t.Errorf("triangle aliases its source: %v", tri.Positions[0])
	}
}

func TestResolveIndex(t *testing.T) {
	tests := []struct {
		index, n, want int
		ok             bool
	}{
		{1, 3, 0, true},
		{3, 3, 2, true},
		{4, 3, 3, false},
		{-1, 8, 7, true},
		{-2, 8, 6, true},
		{-8, 8, 0, true},
		{-9, 8, -1, false},
		{0, 8, 8, false},
		{1, 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := ResolveIndex(tt.index, tt.n)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveIndex(%d, %d) = %d, %v; want %d, %v", tt.index, tt.n, got, ok, tt.want, tt.ok)
		}
	}
}
