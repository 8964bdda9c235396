// draw/binding_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package draw

import (
	"testing"

	"github.com/mmp/geodraw/math"
	"github.com/mmp/geodraw/renderer"
	"github.com/mmp/geodraw/scene"
)

func TestBuildNode(t *testing.T) {
	b := NewBinding(DefaultConfig(), nil)
	red := renderer.RGBA{R: 1, A: 1}
	preview := ll(9, 9, 0)

	for _, tc := range []struct {
		name      string
		def       PrimitiveDefinition
		preview   *math.GeoPoint
		isPreview bool

		geometry  renderer.GeometryKind
		nVertices int
		pointSize float32
		lineWidth float32
		fillAlpha float32 // 0 if there should be no fill
		lineAlpha float32
	}{
		{name: "point", def: PrimitiveDefinition{Kind: PrimitivePoint, Vertices: []math.GeoPoint{ll(1, 1, 0)},
			Stroke: StrokeStyle{Color: red, ThicknessPixels: 2}}, preview: &preview,
			geometry: renderer.GeometryPoints, nVertices: 1, pointSize: 8},
		{name: "large point", def: PrimitiveDefinition{Kind: PrimitivePoint, Vertices: []math.GeoPoint{ll(1, 1, 0)},
			Stroke: StrokeStyle{Color: red, ThicknessPixels: 10}},
			geometry: renderer.GeometryPoints, nVertices: 1, pointSize: 24},
		{name: "polyline", def: PrimitiveDefinition{Kind: PrimitivePolyline, Vertices: []math.GeoPoint{ll(1, 1, 0), ll(2, 2, 0)},
			Stroke: StrokeStyle{Color: red, ThicknessPixels: 3}},
			geometry: renderer.GeometryLineString, nVertices: 2, lineWidth: 3, lineAlpha: 1},
		{name: "polyline preview", def: PrimitiveDefinition{Kind: PrimitivePolyline, Vertices: []math.GeoPoint{ll(1, 1, 0)},
			Stroke: StrokeStyle{Color: red, ThicknessPixels: 3}}, preview: &preview, isPreview: true,
			geometry: renderer.GeometryLineString, nVertices: 2, lineWidth: 3, lineAlpha: 0.65},
		{name: "filled polygon", def: PrimitiveDefinition{Kind: PrimitivePolygon, Vertices: []math.GeoPoint{ll(0, 0, 0), ll(1, 0, 0), ll(1, 1, 0)},
			Stroke: StrokeStyle{Color: red, ThicknessPixels: 4}, Filled: true, FillOpacity: 0.5},
			geometry: renderer.GeometryPolygon, nVertices: 4, lineWidth: 4, lineAlpha: 1, fillAlpha: 0.5},
		{name: "closed polygon", def: PrimitiveDefinition{Kind: PrimitivePolygon, Vertices: []math.GeoPoint{ll(0, 0, 0), ll(1, 0, 0), ll(0, 0, 0)},
			Stroke: StrokeStyle{Color: red, ThicknessPixels: 4}},
			geometry: renderer.GeometryPolygon, nVertices: 3, lineWidth: 4, lineAlpha: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := b.BuildNode(tc.def, tc.preview, tc.isPreview)
			if !ok {
				t.Fatalf("BuildNode failed")
			}

			if n.Geometry != tc.geometry {
				t.Errorf("got geometry %s, expected %s", n.Geometry, tc.geometry)
			}
			if len(n.Vertices) != tc.nVertices {
				t.Errorf("got %d vertices, expected %d", len(n.Vertices), tc.nVertices)
			}
			if n.Style.Altitude.Clamping != renderer.ClampToTerrain || n.Style.Altitude.Technique != renderer.TechniqueDrape {
				t.Errorf("got altitude style %+v, expected draped", n.Style.Altitude)
			}

			if tc.pointSize != 0 {
				if n.Style.Point == nil || math.Abs(n.Style.Point.Size-tc.pointSize) > 1e-5 {
					t.Errorf("got point style %+v, expected size %f", n.Style.Point, tc.pointSize)
				}
			} else if n.Style.Point != nil {
				t.Errorf("unexpected point style %+v", n.Style.Point)
			}

			if tc.lineWidth != 0 {
				if n.Style.Line == nil || n.Style.Line.WidthPixels != tc.lineWidth ||
					math.Abs(n.Style.Line.Color.A-tc.lineAlpha) > 1e-5 {
					t.Errorf("got line style %+v, expected width %f alpha %f", n.Style.Line, tc.lineWidth, tc.lineAlpha)
				}
			} else if n.Style.Line != nil {
				t.Errorf("unexpected line style %+v", n.Style.Line)
			}

			if tc.fillAlpha != 0 {
				if n.Style.Fill == nil || !n.Style.Fill.Outline || math.Abs(n.Style.Fill.Color.A-tc.fillAlpha) > 1e-5 {
					t.Errorf("got fill style %+v, expected alpha %f", n.Style.Fill, tc.fillAlpha)
				}
			} else if n.Style.Fill != nil {
				t.Errorf("unexpected fill style %+v", n.Style.Fill)
			}

			expectedName := PrimitiveNodeName
			if tc.isPreview {
				expectedName = PreviewNodeName
			}
			if n.Name != expectedName {
				t.Errorf("got name %q, expected %q", n.Name, expectedName)
			}
		})
	}

	if _, ok := b.BuildNode(PrimitiveDefinition{Kind: PrimitivePolyline}, nil, false); ok {
		t.Errorf("BuildNode succeeded with no vertices")
	}
}

func TestBuildNodeClampsColor(t *testing.T) {
	b := NewBinding(DefaultConfig(), nil)
	def := PrimitiveDefinition{
		Kind:     PrimitivePolygon,
		Vertices: []math.GeoPoint{ll(0, 0, 0), ll(1, 0, 0), ll(1, 1, 0)},
		Stroke: StrokeStyle{
			Color:           renderer.RGBA{R: 1.5, G: -0.2, B: 0.5, A: 2},
			ThicknessPixels: 2,
		},
		Filled:      true,
		FillOpacity: 0.5,
	}

	for _, tc := range []struct {
		name      string
		isPreview bool
		line      renderer.RGBA
		fill      renderer.RGBA
	}{
		{name: "committed", line: renderer.RGBA{R: 1, B: 0.5, A: 1}, fill: renderer.RGBA{R: 1, B: 0.5, A: 0.5}},
		{name: "preview", isPreview: true, line: renderer.RGBA{R: 1, B: 0.5, A: 0.65}, fill: renderer.RGBA{R: 1, B: 0.5, A: 0.325}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := b.BuildNode(def, nil, tc.isPreview)
			if !ok {
				t.Fatalf("BuildNode failed")
			}
			if c := n.Style.Line.Color; c != tc.line {
				t.Errorf("got line color %s, expected %s", c, tc.line)
			}
			if c := n.Style.Fill.Color; c != tc.fill {
				t.Errorf("got fill color %s, expected %s", c, tc.fill)
			}
		})
	}
}

func TestBindingPreviewLifetime(t *testing.T) {
	m := scene.NewMap(scene.Geographic{Ellipsoid: math.WGS84}, nil)
	b := NewBinding(DefaultConfig(), nil)
	b.SetMap(m)
	layer := m.MemoryLayer(LayerName)

	def := PrimitiveDefinition{Kind: PrimitivePolyline, Vertices: []math.GeoPoint{ll(0, 0, 0), ll(1, 0, 0)}}
	committed, ok := b.Render(def, nil, false)
	if !ok {
		t.Fatalf("Render failed")
	}

	var last renderer.NodeID
	for i := range 5 {
		p := ll(float64(i), 1, 0)
		id, ok := b.ReplacePreview(def, &p)
		if !ok {
			t.Fatalf("ReplacePreview failed")
		}
		if _, ok := layer.Get(last); ok {
			t.Errorf("previous preview %s still in layer", last)
		}
		last = id
		if layer.Len() != 2 {
			t.Errorf("got %d nodes in layer, expected 2", layer.Len())
		}
	}

	b.ClearPreview()
	if _, ok := b.PreviewNode(); ok {
		t.Errorf("preview remains after ClearPreview")
	}
	if _, ok := layer.Get(committed); !ok || layer.Len() != 1 {
		t.Errorf("committed node lost when clearing preview")
	}

	b.ReleaseAll()
	if b.NumNodes() != 0 || layer.Len() != 0 {
		t.Errorf("got %d nodes, %d in layer after ReleaseAll", b.NumNodes(), layer.Len())
	}
}

func TestBindingWithoutMap(t *testing.T) {
	def := PrimitiveDefinition{Kind: PrimitivePoint, Vertices: []math.GeoPoint{ll(0, 0, 0)}}

	b := NewBinding(DefaultConfig(), nil)
	if _, ok := b.Render(def, nil, false); ok {
		t.Errorf("Render succeeded with no map")
	}

	b.SetMap(scene.NewMap(nil, nil))
	if _, ok := b.Render(def, nil, false); ok {
		t.Errorf("Render succeeded with no spatial reference")
	}
	if b.NumNodes() != 0 {
		t.Errorf("got %d nodes, expected 0", b.NumNodes())
	}
}

func TestNodeCommands(t *testing.T) {
	c, _ := newTestController(t, ToolRectangle)
	c.PointerPress(ll(0, 0, 0))
	c.PointerRelease(ll(0.01, 0.01, 0))

	n, ok := c.Node(c.CommittedNodes()[0])
	if !ok {
		t.Fatalf("committed node not found")
	}

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	n.GenerateCommands(cb, 1)

	stats, err := cb.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Triangles() != 2 || stats.Lines() != 4 {
		t.Errorf("got %s, expected 2 fill triangles and 4 outline segments", stats)
	}
}
