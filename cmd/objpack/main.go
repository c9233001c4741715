// Command objpack converts a Wavefront OBJ file into an interleaved
// position/texcoord/normal vertex buffer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/thedaneeffect/objbuf/obj"
)

var in_path = flag.String("in", "", "input `file`, - for stdin")
var out_path = flag.String("out", "", "output `file`, - for stdout")
var skip_invalid = flag.Bool("skip-invalid", false, "skip lines that fail to parse")
var concurrent = flag.Bool("concurrent", false, "parse attribute and face lines in parallel")
var workers = flag.Int("workers", 0, "parallel workers with -concurrent, 0 for GOMAXPROCS")
var cpu_profile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var mem_profile = flag.String("memprofile", "", "write memory profile to `file`")

func main() {
	log.SetFlags(0)
	log.SetPrefix("objpack: ")
	flag.Parse()

	if *in_path == "" || *out_path == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *cpu_profile != "" {
		f, err := os.Create(*cpu_profile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *mem_profile != "" {
		defer func() {
			f, err := os.Create(*mem_profile)
			if err != nil {
				log.Fatal("could not create memory profile: ", err)
			}
			defer f.Close()
			runtime.GC() // get up-to-date statistics
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatal("could not write memory profile: ", err)
			}
		}()
	}

	if err := run(); err != nil {
		pprof.StopCPUProfile()
		log.Fatal(err)
	}
}

func run() error {
	var src io.Reader = os.Stdin
	if *in_path != "-" {
		f, err := os.Open(*in_path)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	opts := obj.Options{
		SkipInvalid: *skip_invalid,
		Logger:      log.Default(),
		Workers:     *workers,
	}

	var mesh *obj.Mesh
	var err error
	if *concurrent {
		mesh, err = obj.ParseConcurrent(context.Background(), src, opts)
	} else {
		mesh, err = obj.Parse(src, opts)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", *in_path, err)
	}

	buffer := obj.Pack(mesh)

	if *out_path == "-" {
		_, err = buffer.WriteTo(os.Stdout)
	} else {
		err = write_file(*out_path, buffer)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", *out_path, err)
	}

	log.Printf("%d positions, %d normals, %d texcoords, %d triangles -> %d vertices, %d bytes (stride %d)",
		len(mesh.Positions), len(mesh.Normals), len(mesh.TexCoords), len(mesh.Triangles),
		buffer.VertexCount(), len(buffer.Bytes()), buffer.Layout.Stride())
	return nil
}

func write_file(path string, buffer *obj.VertexBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := buffer.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
