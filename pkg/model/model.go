// Package model loads glTF 2.0 models (.gltf or .glb) and exposes the colors
// of their named materials. Everything else in the file is carried through
// untouched when the model is saved again.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// ErrUnsupportedVersion is returned for assets older than glTF 2.0.
var ErrUnsupportedVersion = errors.New("unsupported glTF version")

const glbMagic = "glTF"

// Material is one glTF material.
type Material struct {
	m *gltf.Material
}

// Name returns the material name.
func (m *Material) Name() string {
	return m.m.Name
}

// BaseColor returns pbrMetallicRoughness.baseColorFactor, or white when unset.
func (m *Material) BaseColor() [4]float32 {
	c := [4]float32{1, 1, 1, 1}
	if pbr := m.m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		for i, v := range pbr.BaseColorFactor {
			c[i] = float32(v)
		}
	}
	return c
}

// Emissive returns emissiveFactor.
func (m *Material) Emissive() [3]float32 {
	var c [3]float32
	for i, v := range m.m.EmissiveFactor {
		c[i] = float32(v)
	}
	return c
}

// SetLambert stores a diffuse color and an emissive color scaled by
// intensity. Base alpha is kept. glTF has no separate emissive strength in
// the core schema, so the scale is baked into the factor.
func (m *Material) SetLambert(base, emissive [3]float32, intensity float32) {
	if m.m.PBRMetallicRoughness == nil {
		m.m.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{}
	}
	alpha := m.BaseColor()[3]
	m.m.PBRMetallicRoughness.BaseColorFactor = &[4]float64{
		float64(base[0]), float64(base[1]), float64(base[2]), float64(alpha),
	}
	for i := range emissive {
		m.m.EmissiveFactor[i] = float64(emissive[i] * intensity)
	}
}

// Document is a loaded model.
type Document struct {
	Materials []*Material

	doc    *gltf.Document
	binary bool
}

// Open reads a .gltf or .glb file. External buffers and images are resolved
// relative to the file.
func Open(path string) (*Document, error) {
	binary, err := sniffBinary(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parsing model %s: %w", path, err)
	}
	return wrap(doc, binary)
}

// Parse decodes a self-contained model from memory, detecting GLB by its
// magic.
func Parse(data []byte) (*Document, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	return wrap(doc, bytes.HasPrefix(data, []byte(glbMagic)))
}

func sniffBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	var magic [4]byte
	n, _ := f.Read(magic[:])
	return n == len(magic) && string(magic[:]) == glbMagic, nil
}

func wrap(doc *gltf.Document, binary bool) (*Document, error) {
	if v := doc.Asset.Version; v != "" && !strings.HasPrefix(v, "2.") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
	d := &Document{doc: doc, binary: binary}
	d.Materials = make([]*Material, len(doc.Materials))
	for i, m := range doc.Materials {
		d.Materials[i] = &Material{m: m}
	}
	return d, nil
}

// IsBinary reports whether the document was read from a GLB container.
func (d *Document) IsBinary() bool {
	return d.binary
}

// ForEachNamedMaterial walks the default scene depth first and calls visit
// for every mesh primitive that references a material. A material shared by
// several primitives is visited once per primitive. Documents without scenes
// are walked from every node.
func (d *Document) ForEachNamedMaterial(visit func(name string, m *Material)) {
	doc := d.doc
	var roots []int
	switch {
	case doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	default:
		for i := range doc.Nodes {
			roots = append(roots, i)
		}
	}

	seen := make(map[int]bool, len(doc.Nodes))
	var walk func(int)
	walk = func(n int) {
		if n < 0 || n >= len(doc.Nodes) || seen[n] {
			return
		}
		seen[n] = true
		node := doc.Nodes[n]
		if node.Mesh != nil && *node.Mesh >= 0 && *node.Mesh < len(doc.Meshes) {
			for _, prim := range doc.Meshes[*node.Mesh].Primitives {
				if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(d.Materials) {
					continue
				}
				m := d.Materials[*prim.Material]
				visit(m.Name(), m)
			}
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
}

// MaterialNames lists material names in document order.
func (d *Document) MaterialNames() []string {
	names := make([]string, len(d.Materials))
	for i, m := range d.Materials {
		names[i] = m.Name()
	}
	return names
}

// Encode writes a self-contained model in its original container format.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = d.binary
	if err := enc.Encode(d.doc); err != nil {
		return nil, fmt.Errorf("encoding model: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the document to path in its original container format. A GLB
// must be saved with a .glb extension since its buffer has no external URI.
func (d *Document) Save(path string) error {
	if d.binary && !strings.EqualFold(filepath.Ext(path), ".glb") {
		return fmt.Errorf("saving %s: binary model needs a .glb extension", path)
	}
	var err error
	if d.binary {
		err = gltf.SaveBinary(d.doc, path)
	} else {
		err = gltf.Save(d.doc, path)
	}
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
