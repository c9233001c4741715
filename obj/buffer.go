package obj

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const floatSize = 4

// Attribute describes where one vertex attribute sits inside a stride.
type Attribute struct {
	Offset         int // bytes from the start of the vertex
	ComponentCount int
	ComponentSize  int // bytes per component
}

func (a Attribute) size() int { return a.ComponentCount * a.ComponentSize }

// Layout is the interleaved position/texcoord/normal vertex format.
type Layout struct {
	Position Attribute
	TexCoord Attribute
	Normal   Attribute
}

// DefaultLayout packs 3 position floats, 2 texcoord floats and 3 normal
// floats back to back, 32 bytes per vertex.
func DefaultLayout() Layout {
	return Layout{
		Position: Attribute{Offset: 0, ComponentCount: 3, ComponentSize: floatSize},
		TexCoord: Attribute{Offset: 3 * floatSize, ComponentCount: 2, ComponentSize: floatSize},
		Normal:   Attribute{Offset: 5 * floatSize, ComponentCount: 3, ComponentSize: floatSize},
	}
}

// Stride is the byte size of one vertex.
func (l Layout) Stride() int {
	return max(
		l.Position.Offset+l.Position.size(),
		l.TexCoord.Offset+l.TexCoord.size(),
		l.Normal.Offset+l.Normal.size(),
	)
}

// VertexBuffer is a little-endian, non-indexed triangle list.
type VertexBuffer struct {
	Layout Layout
	buffer []byte
}

// Pack flattens every triangle into three interleaved vertices. Triangles
// without texture coordinates or normals get zeros in those slots.
func Pack(m *Mesh) *VertexBuffer {
	layout := DefaultLayout()
	stride := layout.Stride()
	buf := make([]byte, len(m.Triangles)*3*stride)

	put := func(dst []byte, a Attribute, values []float32) {
		for i, v := range values {
			off := a.Offset + i*a.ComponentSize
			binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(v))
		}
	}

	for t, tri := range m.Triangles {
		for k := range 3 {
			dst := buf[(t*3+k)*stride:]
			put(dst, layout.Position, tri.Positions[k][:])
			if tri.HasTexCoords {
				put(dst, layout.TexCoord, tri.TexCoords[k][:])
			}
			if tri.HasNormals {
				put(dst, layout.Normal, tri.Normals[k][:])
			}
		}
	}

	return &VertexBuffer{Layout: layout, buffer: buf}
}

// Bytes returns the packed data. The slice aliases the buffer.
func (b *VertexBuffer) Bytes() []byte { return b.buffer }

func (b *VertexBuffer) VertexCount() int { return len(b.buffer) / b.Layout.Stride() }

// Float32s decodes the buffer into one float per component.
func (b *VertexBuffer) Float32s() []float32 {
	out := make([]float32, len(b.buffer)/floatSize)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b.buffer[i*floatSize:]))
	}
	return out
}

// Vertex decodes vertex i.
func (b *VertexBuffer) Vertex(i int) (Position, TexCoord, Normal, error) {
	if i < 0 || i >= b.VertexCount() {
		return Position{}, TexCoord{}, Normal{}, fmt.Errorf("vertex %d out of range [0, %d)", i, b.VertexCount())
	}
	src := b.buffer[i*b.Layout.Stride():]
	get := func(a Attribute, dst []float32) {
		for k := range dst {
			dst[k] = math.Float32frombits(binary.LittleEndian.Uint32(src[a.Offset+k*a.ComponentSize:]))
		}
	}
	var p Position
	var t TexCoord
	var n Normal
	get(b.Layout.Position, p[:])
	get(b.Layout.TexCoord, t[:])
	get(b.Layout.Normal, n[:])
	return p, t, n, nil
}

// WriteTo writes the packed bytes to w.
func (b *VertexBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.buffer)
	return int64(n), err
}
