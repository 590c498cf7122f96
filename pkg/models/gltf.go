package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/toyrender/pkg/asset"
	"github.com/taigrr/toyrender/pkg/math3d"
	"github.com/taigrr/toyrender/pkg/pixmap"
)

// GLTFLoader loads binary glTF (.glb) files into a Model.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals when the file has none.
	CalculateNormals bool
	// Textures decodes the first embedded image as the diffuse map.
	Textures bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		Textures:         true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file with default options.
func LoadGLB(path string) (*Model, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads a GLB file, optionally zstd-compressed, and merges all of its
// triangle primitives into one model.
func (l *GLTFLoader) Load(path string) (*Model, error) {
	rc, err := asset.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	defer rc.Close()

	var doc gltf.Document
	if err := gltf.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gltf %s: %w", path, err)
	}

	m := NewModel(filepath.Base(path))
	for _, mesh := range doc.Meshes {
		if err := l.processMesh(&doc, mesh, m); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", mesh.Name, err)
		}
	}

	// indices come from the file, so check them before anything dereferences
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if l.CalculateNormals && !m.HasNormals() {
		m.CalculateSmoothNormals()
	}
	if l.Textures {
		m.Diffuse = firstTexture(&doc)
	}
	m.CalculateBounds()
	return m, nil
}

// processMesh appends the geometry of every triangle primitive. glTF shares
// one index across all attributes, so each corner uses it for V, T and N.
func (l *GLTFLoader) processMesh(doc *gltf.Document, mesh *gltf.Mesh, m *Model) error {
	for _, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip lines and points
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
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3Accessor(doc, idx); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		var uvs []math3d.Vec2
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVec2Accessor(doc, idx); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(m.Positions)
		baseUV, baseN := len(m.UVs), len(m.Normals)
		m.Positions = append(m.Positions, positions...)
		for _, uv := range uvs {
			// glTF puts V=0 at the top; models use the bottom-left convention
			m.UVs = append(m.UVs, math3d.V2(uv.X, 1-uv.Y))
		}
		m.Normals = append(m.Normals, normals...)

		corner := func(i int) Corner {
			c := Corner{V: base + i, T: -1, N: -1}
			if i < len(uvs) {
				c.T = baseUV + i
			}
			if i < len(normals) {
				c.N = baseN + i
			}
			return c
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			m.Faces = append(m.Faces, Face{
				corner(indices[i]),
				corner(indices[i+1]),
				corner(indices[i+2]),
			})
		}
	}
	return nil
}

func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	a, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorVec3 || a.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", a.Type, a.ComponentType)
	}
	data, stride, err := accessorBytes(doc, a, 12)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, a.Count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V3(readFloat32(b), readFloat32(b[4:]), readFloat32(b[8:]))
	}
	return out, nil
}

func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	a, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorVec2 || a.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC2, got %v/%v", a.Type, a.ComponentType)
	}
	data, stride, err := accessorBytes(doc, a, 8)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec2, a.Count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V2(readFloat32(b), readFloat32(b[4:]))
	}
	return out, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	a, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	var size int
	switch a.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", a.ComponentType)
	}
	data, stride, err := accessorBytes(doc, a, size)
	if err != nil {
		return nil, err
	}
	out := make([]int, a.Count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d of %d: %w", idx, len(doc.Accessors), ErrIndexRange)
	}
	return doc.Accessors[idx], nil
}

// bufferView resolves a buffer view and the buffer it points into.
func bufferView(doc *gltf.Document, idx int) (*gltf.BufferView, *gltf.Buffer, error) {
	if idx < 0 || idx >= len(doc.BufferViews) || doc.BufferViews[idx] == nil {
		return nil, nil, fmt.Errorf("buffer view %d of %d: %w", idx, len(doc.BufferViews), ErrIndexRange)
	}
	bv := doc.BufferViews[idx]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) || doc.Buffers[bv.Buffer] == nil {
		return nil, nil, fmt.Errorf("buffer %d of %d: %w", bv.Buffer, len(doc.Buffers), ErrIndexRange)
	}
	return bv, doc.Buffers[bv.Buffer], nil
}

// accessorBytes returns the accessor's slice of its embedded buffer and the
// element stride, checking that every element fits.
func accessorBytes(doc *gltf.Document, a *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if a.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	bv, buf, err := bufferView(doc, *a.BufferView)
	if err != nil {
		return nil, 0, err
	}
	if buf.URI != "" {
		return nil, 0, fmt.Errorf("external buffers not supported")
	}
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bv.ByteOffset + a.ByteOffset
	if start < 0 || stride < elemSize || a.Count < 0 {
		return nil, 0, fmt.Errorf("accessor layout offset %d stride %d count %d is invalid", start, stride, a.Count)
	}
	if a.Count == 0 {
		return nil, stride, nil
	}
	end := start + (a.Count-1)*stride + elemSize
	if end > len(buf.Data) {
		return nil, 0, fmt.Errorf("accessor reads %d bytes past buffer end", end-len(buf.Data))
	}
	return buf.Data[start:end], stride, nil
}

func readFloat32(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

// firstTexture decodes the first embedded image that decodes cleanly.
func firstTexture(doc *gltf.Document) *pixmap.Pixmap {
	for _, img := range doc.Images {
		if img.BufferView == nil {
			continue
		}
		bv, buf, err := bufferView(doc, *img.BufferView)
		if err != nil || buf.Data == nil || bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset+bv.ByteLength > len(buf.Data) {
			continue
		}
		p, err := decodeImage(bytes.NewReader(buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]))
		if err == nil {
			return p
		}
	}
	return nil
}
