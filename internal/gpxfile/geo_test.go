package gpxfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	// one degree of longitude on the equator
	assert.InDelta(t, 111194.93, haversine(latLon{0, 0}, latLon{0, 1}), 0.01)
	assert.Zero(t, haversine(latLon{43.5, -80.2}, latLon{43.5, -80.2}))
}

func TestRoundLength(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{4.9, "0"},
		{5, "10"},
		{137.34, "140"},
		{111.19, "110"},
		{1004.99, "1000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundLength(tt.in).String(), "in=%v", tt.in)
	}
}

func TestIsLoop(t *testing.T) {
	square := []latLon{{43, -80}, {43.001, -80}, {43.001, -80.001}, {43, -80}}
	assert.True(t, isLoop(square))
	assert.False(t, isLoop(square[:3]), "fewer than four points is never a loop")
	assert.False(t, isLoop([]latLon{{43, -80}, {43.001, -80}, {43.001, -80.001}, {43.002, -80}}))
}
