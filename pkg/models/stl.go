package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/taigrr/showcase/pkg/math3d"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal + 3 vertices (12 floats) + attribute count
)

// ErrEmptySTL is returned when an STL payload contains no facets.
var ErrEmptySTL = errors.New("stl: no facets")

// STLLoader parses STL (stereolithography) data in both ASCII and binary form.
type STLLoader struct {
	// SmoothNormals averages normals per vertex instead of keeping the
	// per-facet normals stored in the file.
	SmoothNormals bool
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{SmoothNormals: true}
}

// LoadSTLBytes parses STL data with default settings.
func LoadSTLBytes(data []byte, name string) (*Mesh, error) {
	return NewSTLLoader().Load(data, name)
}

// Load parses STL from a byte slice, detecting the format.
func (l *STLLoader) Load(data []byte, name string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	if isBinarySTL(data) {
		mesh, err = parseBinarySTL(data, name)
	} else {
		mesh, err = parseASCIISTL(data, name)
	}
	if err != nil {
		return nil, err
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptySTL)
	}

	if l.SmoothNormals || !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// isBinarySTL reports whether data is binary STL. Binary files may also start
// with "solid" in their header, so the declared triangle count is checked
// against the payload size before trusting the ASCII keyword.
func isBinarySTL(data []byte) bool {
	if len(data) >= stlHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if uint64(len(data)) == stlHeaderSize+4+uint64(count)*stlTriangleSize {
			return true
		}
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return !bytes.HasPrefix(trimmed, []byte("solid"))
}

func parseBinarySTL(data []byte, name string) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("binary stl too short: %d bytes", len(data))
	}

	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	want := stlHeaderSize + 4 + uint64(count)*stlTriangleSize
	if uint64(len(data)) < want {
		return nil, fmt.Errorf("binary stl truncated: expected %d bytes, got %d", want, len(data))
	}

	mesh := NewMesh(name)
	dedup := newVertexIndex(mesh)

	off := stlHeaderSize + 4
	for range count {
		normal := readVec3LE(data[off:])
		off += 12

		var face [3]int
		for v := range 3 {
			face[v] = dedup.index(readVec3LE(data[off:]), normal)
			off += 12
		}
		off += 2 // attribute byte count

		mesh.AddFace(face[0], face[1], face[2])
	}

	return mesh, nil
}

func readVec3LE(b []byte) math3d.Vec3 {
	return math3d.V3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	)
}

func parseASCIISTL(data []byte, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	dedup := newVertexIndex(mesh)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var (
		normal math3d.Vec3
		verts  []int
		inLoop bool
	)

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "facet":
			if len(fields) >= 5 && strings.EqualFold(fields[1], "normal") {
				n, err := parseTriple(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("line %d: normal: %w", lineNum, err)
				}
				normal = n.Normalize()
			}
			verts = verts[:0]

		case "outer":
			inLoop = true

		case "vertex":
			if !inLoop {
				return nil, fmt.Errorf("line %d: vertex outside loop", lineNum)
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			pos, err := parseTriple(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNum, err)
			}
			verts = append(verts, dedup.index(pos, normal))

		case "endloop":
			inLoop = false

		case "endfacet":
			// Polygons with more than three vertices are fanned.
			for i := 1; i+1 < len(verts); i++ {
				mesh.AddFace(verts[0], verts[i], verts[i+1])
			}
			verts = verts[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ascii stl: %w", err)
	}

	return mesh, nil
}

func parseTriple(fields []string) (math3d.Vec3, error) {
	var out [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return math3d.Vec3{}, err
		}
		out[i] = v
	}
	return math3d.V3(out[0], out[1], out[2]), nil
}

// vertexIndex shares identical positions between facets so smooth normals
// can be averaged across them.
type vertexIndex struct {
	mesh *Mesh
	seen map[math3d.Vec3]int
}

func newVertexIndex(m *Mesh) *vertexIndex {
	return &vertexIndex{mesh: m, seen: make(map[math3d.Vec3]int)}
}

func (vi *vertexIndex) index(pos, normal math3d.Vec3) int {
	if idx, ok := vi.seen[pos]; ok {
		return idx
	}
	idx := vi.mesh.AddVertex(pos, normal)
	vi.seen[pos] = idx
	return idx
}
