package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// binarySTL encodes triangles (each 3 vertices of xyz) as binary STL.
func binarySTL(header string, tris [][3][3]float32) []byte {
	var buf bytes.Buffer
	h := make([]byte, stlHeaderSize)
	copy(h, header)
	buf.Write(h)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		_ = binary.Write(&buf, binary.LittleEndian, [3]float32{0, 0, 1})
		for _, v := range tri {
			_ = binary.Write(&buf, binary.LittleEndian, v)
		}
		_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

var quad = [][3][3]float32{
	{{0, 0, 0}, {2, 0, 0}, {2, 4, 0}},
	{{0, 0, 0}, {2, 4, 0}, {0, 4, 0}},
}

func TestLoadBinarySTL(t *testing.T) {
	data := binarySTL("binary part", quad)

	m, err := LoadSTLBytes(data, "part.stl")
	if err != nil {
		t.Fatalf("LoadSTLBytes: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("triangles = %d, want 2", m.TriangleCount())
	}
	if m.VertexCount() != 4 {
		t.Errorf("shared vertices should be deduplicated: got %d, want 4", m.VertexCount())
	}
	if got := m.Size(); got.X != 2 || got.Y != 4 || got.Z != 0 {
		t.Errorf("size = %v, want (2,4,0)", got)
	}
}

func TestLoadBinarySTLWithSolidHeader(t *testing.T) {
	// Many exporters write "solid" into the binary header.
	data := binarySTL("solid exported-by-cad", quad)

	m, err := LoadSTLBytes(data, "part.stl")
	if err != nil {
		t.Fatalf("LoadSTLBytes: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("triangles = %d, want 2", m.TriangleCount())
	}
}

func TestLoadASCIISTL(t *testing.T) {
	src := `solid notebook
  facet normal 0 0 1
    outer loop
      vertex -1 -0.1 -2
      vertex 1 -0.1 -2
      vertex 1 0.1 2
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex -1 -0.1 -2
      vertex 1 0.1 2
      vertex -1 0.1 2
    endloop
  endfacet
endsolid notebook
`
	m, err := LoadSTLBytes([]byte(src), "notebook.stl")
	if err != nil {
		t.Fatalf("LoadSTLBytes: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("triangles = %d, want 2", m.TriangleCount())
	}
	if m.Bounds.Min.X != -1 || m.Bounds.Max.Z != 2 {
		t.Errorf("bounds = %v", m.Bounds)
	}
	for i, v := range m.Vertices {
		if math.Abs(v.Normal.Len()-1) > 1e-9 {
			t.Errorf("vertex %d normal not unit: %v", i, v.Normal)
		}
	}
}

func TestLoadSTLErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated binary", binarySTL("x", quad)[:120]},
		{"bad ascii number", []byte("solid x\nfacet normal 0 0 1\nouter loop\nvertex a b c\nendloop\nendfacet\nendsolid\n")},
		{"vertex outside loop", []byte("solid x\nfacet normal 0 0 1\nvertex 0 0 0\nendfacet\nendsolid\n")},
		{"empty ascii", []byte("solid x\nendsolid x\n")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadSTLBytes(tc.data, tc.name); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEmptySTLSentinel(t *testing.T) {
	_, err := LoadSTLBytes(binarySTL("empty", nil), "empty.stl")
	if !errors.Is(err, ErrEmptySTL) {
		t.Errorf("err = %v, want ErrEmptySTL", err)
	}
}
