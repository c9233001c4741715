package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cube.bin")

	for _, c := range []bool{false, true} {
		*in_path = "../../obj/testdata/cube.obj"
		*out_path = out
		*concurrent = c

		if err := run(); err != nil {
			t.Fatalf("concurrent=%v: %v", c, err)
		}
		info, err := os.Stat(out)
		if err != nil {
			t.Fatal(err)
		}
		// 12 triangles * 3 vertices * 32 bytes
		if info.Size() != 12*3*32 {
			t.Errorf("concurrent=%v: size = %d", c, info.Size())
		}
	}
}

func TestRunMissingInput(t *testing.T) {
	*in_path = filepath.Join(t.TempDir(), "missing.obj")
	*out_path = filepath.Join(t.TempDir(), "out.bin")
	*concurrent = false

	if err := run(); err == nil {
		t.Fatal("run succeeded on a missing file")
	}
}
