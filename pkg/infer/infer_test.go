package infer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
	"github.com/OpenTraceLab/keylayout/pkg/layout"
)

func sw(ref string, x, y float64) Switch {
	return Switch{Reference: ref, Position: geom.Point{X: x, Y: y}}
}

// square is a 2x2 block of switches at 19mm pitch in reading order
func square() []Switch {
	return []Switch{
		sw("SW1", 0, 0),
		sw("SW2", 19, 0),
		sw("SW3", 0, 19),
		sw("SW4", 19, 19),
	}
}

type cell struct{ row, col int }

func cells(l layout.Layout) []cell {
	out := make([]cell, len(l))
	for i, k := range l {
		out[i] = cell{k.Row, k.Col}
	}
	return out
}

func TestGenerateSquare(t *testing.T) {
	res := Generate(square(), Options{Spacing: SpacingMX})
	require.Len(t, res.Layout, 4)

	assert.Equal(t, []cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, cells(res.Layout))

	wantX := []float64{0, 1, 0, 1}
	wantY := []float64{0, 0, 1, 1}
	for i, k := range res.Layout {
		assert.Equal(t, wantX[i], k.X, "x[%d]", i)
		assert.Equal(t, wantY[i], k.Y, "y[%d]", i)
		assert.Equal(t, 1.0, k.U)
		assert.Equal(t, 1.0, k.H)
		assert.Zero(t, k.R)
		assert.False(t, k.HasOrigin)
		assert.True(t, k.Addressed)
	}

	assert.Equal(t, 2, res.Diagnostics.Rows)
	assert.Equal(t, 2, res.Diagnostics.ClusteredRows)
	assert.False(t, res.Diagnostics.OrderUnreliable)
}

func TestGenerateEmpty(t *testing.T) {
	res := Generate(nil, Options{Spacing: SpacingMX})
	assert.Empty(t, res.Layout)
	assert.Equal(t, Diagnostics{}, res.Diagnostics)
}

func TestGenerateOffsetsToMinimum(t *testing.T) {
	res := Generate([]Switch{
		sw("SW1", 100, 50),
		sw("SW2", 118, 50),
		sw("SW3", 109, 67),
	}, Options{Spacing: SpacingChoc})

	require.Len(t, res.Layout, 3)
	assert.Equal(t, 0.0, res.Layout[0].X)
	assert.Equal(t, 1.0, res.Layout[1].X)
	assert.Equal(t, 0.5, res.Layout[2].X)
	assert.Equal(t, 1.0, res.Layout[2].Y)
	assert.Equal(t, cell{1, 0}, cell{res.Layout[2].Row, res.Layout[2].Col})
}

func TestGenerateRotation(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		wantR float64
	}{
		{"unrotated", 0, 0},
		{"quarter turn snaps away", 90, 0},
		{"upside down snaps away", 180, 0},
		{"small tilt", 10, 10},
		{"tilt past a quarter turn", 100, 10},
		{"negative tilt", -10, -10},
		{"tilt just short of a half turn", 175, -5},
		{"exactly 45", 45, 45},
		{"just over 45", 50, -40},
		{"NaN", math.NaN(), 0},
		{"infinite", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sw("SW1", 0, 0)
			s.Angle = tt.angle
			res := Generate([]Switch{s}, Options{Spacing: SpacingMX})
			require.Len(t, res.Layout, 1)

			k := res.Layout[0]
			assert.InDelta(t, tt.wantR, k.R, 1e-9)
			if tt.wantR == 0 {
				assert.False(t, k.HasOrigin)
				return
			}
			assert.True(t, k.HasOrigin)
			assert.Equal(t, 0.5, k.RX)
			assert.Equal(t, 0.5, k.RY)
		})
	}
}

func TestGenerateSizeInference(t *testing.T) {
	wide := sw("SW1", 0, 0)
	wide.Module = "Keyboard:SW_Cherry_MX_2.00u_PCB"

	vertical := sw("SW2", 38, 0)
	vertical.Module = "SW_Cherry_MX_2u"
	vertical.Angle = 90

	tilted := sw("SW3", 76, 0)
	tilted.Module = "SW_MX_1.5u"
	tilted.Angle = 15

	t.Run("disabled", func(t *testing.T) {
		res := Generate([]Switch{wide}, Options{Spacing: SpacingMX})
		assert.Equal(t, 1.0, res.Layout[0].U)
		assert.Equal(t, 0.0, res.Layout[0].X)
	})

	t.Run("enabled", func(t *testing.T) {
		res := Generate([]Switch{wide, vertical, tilted}, Options{Spacing: SpacingMX, InferSize: true})
		require.Len(t, res.Layout, 3)

		k := res.Layout[0]
		assert.Equal(t, 2.0, k.U)
		assert.Equal(t, 1.0, k.H)
		assert.Equal(t, -0.5, k.X, "center-anchored footprint moved to top-left")

		k = res.Layout[1]
		assert.Equal(t, 1.0, k.U)
		assert.Equal(t, 2.0, k.H)
		assert.Equal(t, 2.0, k.X)
		assert.Equal(t, -0.5, k.Y)
		assert.False(t, k.HasOrigin, "quarter turn leaves no residual rotation")

		k = res.Layout[2]
		assert.Equal(t, 1.5, k.U)
		assert.Equal(t, 3.75, k.X)
		assert.Equal(t, 15.0, k.R)
		assert.Equal(t, 4.5, k.RX, "rotation about the key center")
		assert.Equal(t, 0.5, k.RY)
	})

	t.Run("explicit size wins", func(t *testing.T) {
		s := wide
		s.Size = geom.Size{Width: 1.25}
		res := Generate([]Switch{s}, Options{Spacing: SpacingMX, InferSize: true})
		assert.Equal(t, 1.25, res.Layout[0].U)
		assert.Equal(t, 1.0, res.Layout[0].H)
	})
}

func TestGenerateOrdering(t *testing.T) {
	shuffled := []Switch{
		sw("SW4", 19, 19),
		sw("SW1", 0, 0),
		sw("SW3", 0, 19),
		sw("SW2", 19, 0),
	}

	for name, order := range map[string]Order{
		"by reference": ByReference,
		"by position":  ByPosition(9.5),
	} {
		t.Run(name, func(t *testing.T) {
			res := Generate(shuffled, Options{Spacing: SpacingMX, Order: order})
			assert.Equal(t, []cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, cells(res.Layout))
			assert.Equal(t, "SW1", res.Switches[0].Reference)
			assert.False(t, res.Diagnostics.OrderUnreliable)
		})
	}

	t.Run("input is not reordered in place", func(t *testing.T) {
		in := append([]Switch(nil), shuffled...)
		Generate(in, Options{Spacing: SpacingMX, Order: ByReference})
		assert.Equal(t, shuffled, in)
	})
}

func TestGenerateFlagsUnreliableOrder(t *testing.T) {
	// column-major annotation: the row-break heuristic sees a single row
	colMajor := []Switch{
		sw("SW1", 0, 0),
		sw("SW2", 0, 19),
		sw("SW3", 19, 0),
		sw("SW4", 19, 19),
	}

	res := Generate(colMajor, Options{Spacing: SpacingMX})
	assert.Equal(t, 1, res.Diagnostics.Rows)
	assert.Equal(t, 2, res.Diagnostics.ClusteredRows)
	assert.True(t, res.Diagnostics.OrderUnreliable)
}

func TestClusterRows(t *testing.T) {
	staggered := []Switch{
		sw("SW1", 0, 4),
		sw("SW2", 19, 0),
		sw("SW3", 38, 2),
		sw("SW4", 0, 23),
		sw("SW5", 19, 19),
		sw("SW6", 38, 21),
	}
	assert.Equal(t, 2, ClusterRows(staggered, 19, DefaultRowTolerance))
	assert.Equal(t, 0, ClusterRows(nil, 19, DefaultRowTolerance))
}

func TestReferenceNumber(t *testing.T) {
	tests := []struct {
		ref    string
		want   int
		wantOK bool
	}{
		{"SW1", 1, true},
		{"SW42", 42, true},
		{"K_7", 7, true},
		{"S12'", 12, true},
		{"LED", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			n, ok := ReferenceNumber(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestByReference(t *testing.T) {
	got := ByReference([]Switch{sw("SW10", 0, 0), sw("X", 0, 0), sw("SW2", 0, 0), sw("SW1", 0, 0)})
	refs := []string{}
	for _, s := range got {
		refs = append(refs, s.Reference)
	}
	assert.Equal(t, []string{"SW1", "SW2", "SW10", "X"}, refs)
}

func TestSizeFromModule(t *testing.T) {
	tests := []struct {
		module string
		want   geom.Size
	}{
		{"SW_Cherry_MX_1.00u_PCB", geom.Size{Width: 1, Height: 1}},
		{"SW_Cherry_MX_1.25u_PCB", geom.Size{Width: 1.25, Height: 1}},
		{"Choc_2u", geom.Size{Width: 2, Height: 1}},
		{"MX_ISO_1.25u_2h", geom.Size{Width: 1.25, Height: 2}},
		{"Kailh_socket_MX", geom.Size{Width: 1, Height: 1}},
		{"R_0603_1608Metric", geom.Size{Width: 1, Height: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			assert.Equal(t, tt.want, SizeFromModule(tt.module))
		})
	}
}

func TestSwitchModuleParts(t *testing.T) {
	s := Switch{Module: "Keyboard:SW_MX_1u"}
	assert.Equal(t, "SW_MX_1u", s.Footprint())

	s.Module = "SW_MX_1u"
	assert.Equal(t, "SW_MX_1u", s.Footprint())
}

func TestParseSpacing(t *testing.T) {
	custom := map[string]Spacing{"wide": {X: 20, Y: 20}}

	tests := []struct {
		value   string
		want    Spacing
		wantErr bool
	}{
		{value: "mx", want: SpacingMX},
		{value: "CHOC", want: SpacingChoc},
		{value: "wide", want: Spacing{X: 20, Y: 20}},
		{value: "18.5x17.5", want: Spacing{X: 18.5, Y: 17.5}},
		{value: "0x19", wantErr: true},
		{value: "axb", wantErr: true},
		{value: "alps", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseSpacing(tt.value, custom)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSpacing("-1x19", nil)
	assert.ErrorIs(t, err, ErrInvalidSpacing)
	assert.Equal(t, "18.5x17.5", Spacing{X: 18.5, Y: 17.5}.String())
}
