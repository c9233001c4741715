package obj

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type entry struct {
	number int
	kind   lineKind
	text   string
	err    error

	// attribute lines
	position Position
	normal   Normal
	texcoord TexCoord

	// face lines: collection sizes when the face was reached
	positions, texcoords, normals int
	triangle                      Triangle
}

// ParseConcurrent builds the same Mesh as Parse. Attribute lines are
// parsed in parallel, then faces are resolved in parallel, each against
// the attributes that preceded it in the document. The reported error is
// the one from the earliest failing line.
func ParseConcurrent(ctx context.Context, r io.Reader, opts Options) (*Mesh, error) {
	var entries []entry
	n := 0
	err := scanLines(r, func(line string) error {
		n++
		if kind := classify(line); kind != blankLine {
			entries = append(entries, entry{number: n, kind: kind, text: line})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	err = each(ctx, workers, entries, func(e *entry) {
		switch e.kind {
		case positionLine:
			e.position, e.err = ParsePosition(e.text)
		case normalLine:
			e.normal, e.err = ParseNormal(e.text)
		case texcoordLine:
			e.texcoord, e.err = ParseTexCoord(e.text)
		case unknownLine:
			e.err = shapeError(e.text, "unsupported directive")
		}
	})
	if err != nil {
		return nil, err
	}

	// Collect attributes in document order. Without SkipInvalid the
	// document ends at the first bad attribute line, but a face above it
	// may still fail first.
	mesh := &Mesh{}
	var faces []*entry
	var stop error
	for i := range entries {
		e := &entries[i]
		if e.err != nil {
			if !opts.SkipInvalid {
				stop = fmt.Errorf("line %d: %w", e.number, e.err)
				break
			}
			opts.logf("line %d: skipped: %v", e.number, e.err)
			continue
		}
		switch e.kind {
		case positionLine:
			mesh.Positions = append(mesh.Positions, e.position)
		case normalLine:
			mesh.Normals = append(mesh.Normals, e.normal)
		case texcoordLine:
			mesh.TexCoords = append(mesh.TexCoords, e.texcoord)
		case faceLine:
			e.positions = len(mesh.Positions)
			e.texcoords = len(mesh.TexCoords)
			e.normals = len(mesh.Normals)
			faces = append(faces, e)
		}
	}

	err = each(ctx, workers, faces, func(e **entry) {
		f := *e
		f.triangle, f.err = ResolveFace(f.text,
			mesh.Positions[:f.positions],
			mesh.TexCoords[:f.texcoords],
			mesh.Normals[:f.normals])
	})
	if err != nil {
		return nil, err
	}

	for _, f := range faces {
		if f.err != nil {
			if !opts.SkipInvalid {
				return nil, fmt.Errorf("line %d: %w", f.number, f.err)
			}
			opts.logf("line %d: skipped: %v", f.number, f.err)
			continue
		}
		mesh.Triangles = append(mesh.Triangles, f.triangle)
	}
	if stop != nil {
		return nil, stop
	}
	return mesh, nil
}

// each runs fn over items split into contiguous chunks, one per worker.
func each[T any](ctx context.Context, workers int, items []T, fn func(*T)) error {
	if len(items) == 0 {
		return ctx.Err()
	}
	size := (len(items) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(items); lo += size {
		chunk := items[lo:min(lo+size, len(items))]
		g.Go(func() error {
			for i := range chunk {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				fn(&chunk[i])
			}
			return nil
		})
	}
	return g.Wait()
}
