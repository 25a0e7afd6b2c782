package models

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/showcase/pkg/math3d"
)

// GLTFLoader decodes GLB and GLTF documents into a Mesh. External buffers are
// only resolved when the document is loaded through LoadFS.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
	}
}

// LoadGLBBytes decodes a GLB payload with default options.
func LoadGLBBytes(data []byte, name string) (*Mesh, error) {
	return NewGLTFLoader().Load(bytes.NewReader(data), name)
}

// Load decodes a GLTF or GLB stream and returns a single Mesh holding the
// triangles of every mesh primitive in the document.
func (l *GLTFLoader) Load(r io.Reader, name string) (*Mesh, error) {
	return l.LoadFS(r, nil, name)
}

// LoadFS is Load with relative buffer URIs read from fsys, which should be
// rooted at the directory holding the document. A nil fsys leaves external
// buffers unresolved.
func (l *GLTFLoader) LoadFS(r io.Reader, fsys fs.FS, name string) (*Mesh, error) {
	var dec *gltf.Decoder
	if fsys != nil {
		dec = gltf.NewDecoderFS(r, fsys)
	} else {
		dec = gltf.NewDecoder(r)
	}
	doc := new(gltf.Document)
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}

	mesh := NewMesh(name)
	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("gltf %s: no triangle primitives", name)
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		baseVertex := len(mesh.Vertices)
		for i, p := range positions {
			var n math3d.Vec3
			if i < len(normals) {
				n = normals[i]
			}
			mesh.AddVertex(p, n)
		}

		// The rasterizer is two-sided, so winding is kept as authored.
		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				for _, idx := range indices[i : i+3] {
					if idx >= len(positions) {
						return fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
					}
				}
				mesh.AddFace(baseVertex+indices[i], baseVertex+indices[i+1], baseVertex+indices[i+2])
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddFace(baseVertex+i, baseVertex+i+1, baseVertex+i+2)
			}
		}
	}

	return nil
}

// readVec3Accessor reads float VEC3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		off := i * stride
		result[i] = math3d.V3(
			float64(readFloat32LE(data[off:])),
			float64(readFloat32LE(data[off+4:])),
			float64(readFloat32LE(data[off+8:])),
		)
	}
	return result, nil
}

// readIndices reads scalar index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		off := i * stride
		switch size {
		case 1:
			result[i] = int(data[off])
		case 2:
			result[i] = int(uint16(data[off]) | uint16(data[off+1])<<8)
		case 4:
			result[i] = int(uint32(data[off]) |
				uint32(data[off+1])<<8 |
				uint32(data[off+2])<<16 |
				uint32(data[off+3])<<24)
		}
	}
	return result, nil
}

// accessorBytes returns the accessor's backing bytes starting at its first
// element, along with the element stride. Bounds are checked up front.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	buffer := doc.Buffers[bufferView.Buffer]
	if len(buffer.Data) == 0 {
		return nil, 0, fmt.Errorf("buffer %d has no data (external %q not resolved)", bufferView.Buffer, buffer.URI)
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	end := start
	if accessor.Count > 0 {
		end = start + (accessor.Count-1)*stride + elemSize
	}
	if start < 0 || end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor range [%d,%d) exceeds buffer of %d bytes", start, end, len(buffer.Data))
	}

	return buffer.Data[start:end], stride, nil
}

// readFloat32LE reads a little-endian float32.
func readFloat32LE(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
