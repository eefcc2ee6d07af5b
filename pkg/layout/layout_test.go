package layout

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
)

// grid builds an addressed rows x cols layout of 1u keys at unit pitch
func grid(rows, cols int) Layout {
	var l Layout
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			l = append(l, NewKey(float64(c), float64(r)).WithAddress(r, c))
		}
	}
	return l
}

// splitHalf is a small column-staggered half with a wide key and a rotated
// thumb key, in row order
func splitHalf() Layout {
	return Layout{
		NewKey(0, 0.25).WithAddress(0, 0),
		NewKey(1, 0).WithAddress(0, 1),
		NewKey(2, 0.125).WithAddress(0, 2),
		NewKey(0, 1.25).WithAddress(1, 0).WithSize(1.5, 1),
		NewKey(1.5, 1).WithAddress(1, 1),
		NewKey(2, 2.5).WithAddress(2, 2).WithRotation(15, 2.5, 3),
	}
}

func assertPointNear(t *testing.T, want, got geom.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
}

func TestComputeParams(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		opts RenderOptions
		want Params
	}{
		{
			name: "default pixel scale subtracts padding",
			key:  NewKey(1, 2),
			opts: DefaultRenderOptions(),
			want: Params{X: 70, Y: 140, U: 65, H: 65},
		},
		{
			name: "unit scale",
			key:  NewKey(1, 2).WithSize(2, 1),
			opts: UnitOptions(),
			want: Params{X: 1, Y: 2, U: 2, H: 1},
		},
		{
			name: "rotation origin becomes a relative offset",
			key:  NewKey(1, 1).WithRotation(30, 2, 3),
			opts: RenderOptions{KeyUnitPx: 10},
			want: Params{X: 10, Y: 10, U: 10, H: 10, RX: 10, RY: 20, Angle: 30},
		},
		{
			name: "rotation without origin rotates about itself",
			key:  Key{X: 3, Y: 4, U: 1, H: 1, R: 45},
			opts: UnitOptions(),
			want: Params{X: 3, Y: 4, U: 1, H: 1, Angle: 45},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeParams(tt.key, tt.opts))
		})
	}
}

func TestTransformKeyPolygon(t *testing.T) {
	t.Run("unrotated key in unit space", func(t *testing.T) {
		poly := TransformKeyPolygon(NewKey(2, 1).WithSize(1.5, 1), UnitOptions())
		require.Len(t, poly, 4)
		assertPointNear(t, geom.Point{X: 2, Y: 1}, poly[0])
		assertPointNear(t, geom.Point{X: 3.5, Y: 1}, poly[1])
		assertPointNear(t, geom.Point{X: 3.5, Y: 2}, poly[2])
		assertPointNear(t, geom.Point{X: 2, Y: 2}, poly[3])
	})

	t.Run("quarter turn about own anchor", func(t *testing.T) {
		k := Key{X: 1, Y: 1, U: 2, H: 1, R: 90}
		poly := TransformKeyPolygon(k, UnitOptions())
		assertPointNear(t, geom.Point{X: 1, Y: 1}, poly[0])
		assertPointNear(t, geom.Point{X: 1, Y: 3}, poly[1])
		assertPointNear(t, geom.Point{X: 0, Y: 3}, poly[2])
	})

	t.Run("half turn about center", func(t *testing.T) {
		k := NewKey(0, 0).WithRotation(180, 0.5, 0.5)
		bbox := KeyBoundingBox(k, UnitOptions())
		assertPointNear(t, geom.Point{X: 0, Y: 0}, bbox.Min)
		assertPointNear(t, geom.Point{X: 1, Y: 1}, bbox.Max)
	})

	t.Run("pixel and unit space agree up to scale", func(t *testing.T) {
		k := NewKey(1, 2).WithRotation(20, 1.5, 2.5)
		unit := TransformKeyPolygon(k, UnitOptions())
		px := TransformKeyPolygon(k, RenderOptions{KeyUnitPx: 70})
		for i := range unit {
			assertPointNear(t, unit[i].Scale(70), px[i])
		}
	})
}

func TestBoundingRect(t *testing.T) {
	t.Run("empty layout is degenerate", func(t *testing.T) {
		bbox := BoundingRect(nil, UnitOptions())
		assert.True(t, bbox.IsEmpty())
		assert.Equal(t, geom.EmptyBox(), bbox)
	})

	t.Run("grid", func(t *testing.T) {
		bbox := BoundingRect(grid(2, 3), UnitOptions())
		assert.Equal(t, geom.Point{X: 0, Y: 0}, bbox.Min)
		assert.Equal(t, geom.Point{X: 3, Y: 2}, bbox.Max)
	})

	t.Run("pixel space", func(t *testing.T) {
		bbox := BoundingRect(grid(1, 2), DefaultRenderOptions())
		assert.Equal(t, geom.Point{X: 135, Y: 65}, bbox.Max)
	})
}

func TestToOrigin(t *testing.T) {
	layouts := map[string]Layout{
		"offset grid": Translate(grid(2, 2), 3.5, -2),
		"split half":  splitHalf(),
		"rotated into negative space": {
			NewKey(0, 0).WithRotation(-30, 0, 0),
			NewKey(1, 0),
		},
	}

	for name, l := range layouts {
		t.Run(name, func(t *testing.T) {
			out := ToOrigin(l)
			bbox := BoundingRect(out, UnitOptions())
			assert.InDelta(t, 0, bbox.Min.X, 1e-9)
			assert.InDelta(t, 0, bbox.Min.Y, 1e-9)
			assert.Len(t, out, len(l))
		})
	}

	t.Run("keys without an origin keep none", func(t *testing.T) {
		out := ToOrigin(Layout{NewKey(2, 3), NewKey(4, 3).WithRotation(10, 4.5, 3.5)})
		assert.False(t, out[0].HasOrigin)
		assert.Equal(t, 0.0, out[0].RX)
		assert.True(t, out[1].HasOrigin)
		assert.InDelta(t, 2.5, out[1].RX, 1e-9)
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := Layout{NewKey(2, 3)}
		_ = ToOrigin(in)
		assert.Equal(t, 2.0, in[0].X)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ToOrigin(nil))
	})
}

func TestSetFixedPrecision(t *testing.T) {
	in := Layout{
		{X: 1.23456, Y: 2, U: 1.25, H: 1, R: -0.0001, RX: 3.14159, RY: 7, HasOrigin: true},
	}

	out := SetFixedPrecision(in, 2)
	assert.Equal(t, 1.23, out[0].X)
	assert.Equal(t, 2.0, out[0].Y)
	assert.Equal(t, 1.25, out[0].U)
	assert.Equal(t, 0.0, out[0].R)
	assert.Equal(t, 3.14, out[0].RX)
	assert.Equal(t, 1.23456, in[0].X, "input untouched")

	huge := SetFixedPrecision(Layout{NewKey(0.123, 1)}, 400)
	assert.False(t, math.IsNaN(huge[0].X))
	assert.InDelta(t, 0.123, huge[0].X, 1e-12)
}

func TestFlip(t *testing.T) {
	t.Run("grid columns reverse", func(t *testing.T) {
		out := Flip(grid(2, 3))
		require.Len(t, out, 6)
		for i, k := range out {
			assert.Equal(t, i/3, k.Row)
			assert.Equal(t, i%3, k.Col, "reading order preserved")
			assert.Equal(t, float64(i%3), k.X)
		}
	})

	t.Run("wide key", func(t *testing.T) {
		l := Layout{
			NewKey(0, 0).WithAddress(0, 0).WithSize(2, 1),
			NewKey(2, 0).WithAddress(0, 1),
		}
		out := Flip(l)
		assert.Equal(t, 0.0, out[0].X)
		assert.Equal(t, 1.0, out[0].U)
		assert.Equal(t, 1.0, out[1].X)
		assert.Equal(t, 2.0, out[1].U)
	})

	t.Run("rotation is negated about a reflected origin", func(t *testing.T) {
		out := Flip(Layout{
			NewKey(0, 0).WithAddress(0, 0).WithRotation(15, 0.5, 0.5),
			NewKey(1, 0).WithAddress(0, 1),
		})
		assert.Equal(t, 0.0, out[0].R)
		assert.Equal(t, -15.0, out[1].R)
		assert.Equal(t, 1.0, out[1].X)
		assert.Equal(t, 1.5, out[1].RX)
		assert.Equal(t, 0.5, out[1].RY)
	})

	t.Run("rotation without origin reflects exactly", func(t *testing.T) {
		l := Layout{Key{X: 0, Y: 0, U: 1, H: 1, R: 30, Row: 0, Col: 0, Addressed: true}}
		out := Flip(l)
		require.Len(t, out, 1)
		assert.True(t, out[0].HasOrigin)
		assert.Equal(t, 1.0, out[0].RX)
		assert.Equal(t, 0.0, out[0].RY)

		// the flipped key is the reflection about x = 0.5
		in := BoundingRect(l, UnitOptions())
		got := BoundingRect(out, UnitOptions())
		assert.InDelta(t, 1-in.Max.X, got.Min.X, 1e-9)
		assert.InDelta(t, 1-in.Min.X, got.Max.X, 1e-9)
		assert.InDelta(t, in.Max.Y, got.Max.Y, 1e-9)
	})

	t.Run("double flip is identity", func(t *testing.T) {
		for name, l := range map[string]Layout{
			"grid":       grid(3, 4),
			"split half": splitHalf(),
			"offset":     Translate(splitHalf(), 2, 1),
		} {
			t.Run(name, func(t *testing.T) {
				twice := Flip(Flip(l))
				require.Len(t, twice, len(l))
				for i := range l {
					assert.InDelta(t, l[i].X, twice[i].X, 1e-9)
					assert.Equal(t, l[i].Y, twice[i].Y)
					assert.Equal(t, l[i].Row, twice[i].Row)
					assert.Equal(t, l[i].Col, twice[i].Col)
					assert.Equal(t, l[i].R, twice[i].R)
					assert.InDelta(t, l[i].RX, twice[i].RX, 1e-9)
				}
			})
		}
	})

	t.Run("rows stay non-decreasing", func(t *testing.T) {
		out := Flip(splitHalf())
		for i := 1; i < len(out); i++ {
			assert.LessOrEqual(t, out[i-1].Row, out[i].Row)
		}
	})
}

func TestMirror(t *testing.T) {
	t.Run("gap zero doubles the layout", func(t *testing.T) {
		l := grid(2, 3)
		out := Mirror(l, MirrorOptions{})
		require.Len(t, out, 2*len(l))

		in := BoundingRect(l, UnitOptions())
		got := BoundingRect(out, UnitOptions())
		assert.Equal(t, 2*in.Width(), got.Width())
		assert.Equal(t, in.Height(), got.Height())

		// first row: three originals then three mirrored keys
		cols := []int{}
		for _, k := range out[:6] {
			cols = append(cols, k.Col)
			assert.Equal(t, 0, k.Row)
		}
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, cols)
	})

	t.Run("gap zero doubles a layout with a rotated inner key", func(t *testing.T) {
		l := Layout{
			NewKey(0, 0).WithAddress(0, 0),
			NewKey(1, 0).WithAddress(0, 1).WithRotation(20, 1.5, 0.5),
		}
		out := Mirror(l, MirrorOptions{})
		require.Len(t, out, 4)

		in := BoundingRect(l, UnitOptions())
		got := BoundingRect(out, UnitOptions())
		assert.InDelta(t, 2*in.Width(), got.Width(), 1e-9)

		left := BoundingRect(out[:2], UnitOptions())
		right := BoundingRect(out[2:], UnitOptions())
		assert.InDelta(t, left.Max.X, right.Min.X, 1e-9, "halves touch without overlapping")
	})

	t.Run("fractional gap rounds columns up", func(t *testing.T) {
		out := Mirror(grid(1, 2), MirrorOptions{Gap: 1.5})
		require.Len(t, out, 4)
		assert.Equal(t, 3.5, out[2].X)
		assert.Equal(t, 4, out[2].Col)
		assert.Equal(t, 4.5, out[3].X)
		assert.Equal(t, 5, out[3].Col)
	})

	t.Run("reference original", func(t *testing.T) {
		out := Mirror(grid(1, 3), MirrorOptions{Gap: 1, ReferenceOriginal: true})
		require.Len(t, out, 6)
		for i := 0; i < 3; i++ {
			assert.True(t, out[i].HasOriginal)
			assert.Equal(t, i, out[i].Original)
			assert.False(t, out[i].Duplicate)
		}
		// mirrored keys are in reversed source order
		assert.Equal(t, []int{2, 1, 0}, []int{out[3].Original, out[4].Original, out[5].Original})
		assert.True(t, out[3].Duplicate)
	})

	t.Run("rotation origins follow the mirrored key", func(t *testing.T) {
		l := Layout{NewKey(0, 0).WithAddress(0, 0).WithRotation(10, 0.5, 0.5)}
		out := Mirror(l, MirrorOptions{Gap: 2})
		require.Len(t, out, 2)
		assert.InDelta(t, 0.5, out[1].RX-out[1].X, 1e-9)
		assert.Equal(t, 0.5, out[1].RY)
		assert.Equal(t, -10.0, out[1].R)

		gap := BoundingRect(out[1:], UnitOptions()).Min.X - BoundingRect(out[:1], UnitOptions()).Max.X
		assert.InDelta(t, 2.0, gap, 1e-9)
	})

	t.Run("rows stay non-decreasing", func(t *testing.T) {
		out := Mirror(splitHalf(), MirrorOptions{Gap: 1})
		for i := 1; i < len(out); i++ {
			assert.LessOrEqual(t, out[i-1].Row, out[i].Row)
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Mirror(nil, MirrorOptions{Gap: 1}))
	})
}

func TestKeyJSON(t *testing.T) {
	t.Run("decode fills defaults and accepts w", func(t *testing.T) {
		var l Layout
		require.NoError(t, json.Unmarshal([]byte(`[
			{"row": 0, "col": 0, "x": 0, "y": 0},
			{"row": 0, "col": 1, "x": 1, "y": 0, "w": 1.5},
			{"row": 1, "col": 0, "x": 0, "y": 1, "r": 15}
		]`), &l))

		require.Len(t, l, 3)
		assert.Equal(t, 1.0, l[0].U)
		assert.Equal(t, 1.0, l[0].H)
		assert.True(t, l.Addressed())
		assert.Equal(t, 1.5, l[1].U)
		assert.False(t, l[2].HasOrigin)
		assert.Equal(t, l[2].Position(), l[2].RotationOrigin())
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		var k Key
		assert.Error(t, json.Unmarshal([]byte(`{"x": 0, "y": 0, "u": 0}`), &k))
	})

	t.Run("encode omits defaults", func(t *testing.T) {
		data, err := json.Marshal(Layout{
			NewKey(1, 2),
			NewKey(0, 0).WithAddress(1, 2).WithSize(2, 1).WithRotation(10, 1, 0.5),
		})
		require.NoError(t, err)
		assert.JSONEq(t, `[
			{"x": 1, "y": 2},
			{"row": 1, "col": 2, "x": 0, "y": 0, "u": 2, "r": 10, "rx": 1, "ry": 0.5}
		]`, string(data))
	})

	t.Run("provenance is never serialized", func(t *testing.T) {
		k := NewKey(0, 0)
		k.Original, k.HasOriginal, k.Duplicate = 3, true, true
		data, err := json.Marshal(k)
		require.NoError(t, err)
		assert.JSONEq(t, `{"x": 0, "y": 0}`, string(data))
	})
}
