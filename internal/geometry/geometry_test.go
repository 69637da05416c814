package geometry_test

import (
	"testing"

	"github.com/dbenamy/hack-retro/internal/geometry"
	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := geometry.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}

	tests := []struct {
		name  string
		other geometry.Rect
		want  bool
	}{
		{"identical", base, true},
		{"contained", geometry.Rect{Left: 2, Top: 2, Right: 4, Bottom: 4}, true},
		{"partial", geometry.Rect{Left: 5, Top: 5, Right: 15, Bottom: 15}, true},
		{"touching right edge", geometry.Rect{Left: 10, Top: 0, Right: 20, Bottom: 10}, true},
		{"touching bottom edge", geometry.Rect{Left: 0, Top: 10, Right: 10, Bottom: 20}, true},
		{"touching corner", geometry.Rect{Left: 10, Top: 10, Right: 20, Bottom: 20}, true},
		{"gap right", geometry.Rect{Left: 10.5, Top: 0, Right: 20, Bottom: 10}, false},
		{"gap below", geometry.Rect{Left: 0, Top: 11, Right: 10, Bottom: 20}, false},
		{"horizontal only", geometry.Rect{Left: 2, Top: 30, Right: 8, Bottom: 40}, false},
		{"vertical only", geometry.Rect{Left: 30, Top: 2, Right: 40, Bottom: 8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geometry.Overlaps(base, tt.other))
			assert.Equal(t, tt.want, geometry.Overlaps(tt.other, base), "overlap must be symmetric")
		})
	}
}

func TestPageCoordinates(t *testing.T) {
	tests := []struct {
		name string
		rect geometry.Rect
		vp   geometry.Viewport
		want geometry.Point
	}{
		{"no scroll", geometry.Rect{Left: 12, Top: 34}, geometry.Viewport{}, geometry.Point{X: 12, Y: 34}},
		{"scrolled", geometry.Rect{Left: 12, Top: 34}, geometry.Viewport{ScrollX: 100, ScrollY: 200}, geometry.Point{X: 112, Y: 234}},
		{"client origin", geometry.Rect{Left: 12, Top: 34}, geometry.Viewport{ClientLeft: 2, ClientTop: 4}, geometry.Point{X: 10, Y: 30}},
		{"rounds to nearest", geometry.Rect{Left: 10.4, Top: 10.5}, geometry.Viewport{}, geometry.Point{X: 10, Y: 11}},
		{"negative viewport rect", geometry.Rect{Left: -20, Top: -5}, geometry.Viewport{ScrollX: 50, ScrollY: 50}, geometry.Point{X: 30, Y: 45}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geometry.PageCoordinates(tt.rect, tt.vp))
		})
	}
}

func TestRectAt(t *testing.T) {
	r := geometry.RectAt(geometry.Point{X: 5, Y: 7}, geometry.Size{Width: 10, Height: 3})
	assert.Equal(t, geometry.Rect{Left: 5, Top: 7, Right: 15, Bottom: 10}, r)
}
