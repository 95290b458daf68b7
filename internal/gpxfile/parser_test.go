package gpxfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyFixture copies a testdata file into a temp dir so tests may modify it.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	dst := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(dst, raw, 0o644))
	return dst
}

func TestDecodeHeader(t *testing.T) {
	p := NewParser()
	h, err := p.DecodeHeader(context.Background(), filepath.Join("testdata", "sample.gpx"))
	require.NoError(t, err)

	assert.Equal(t, "sample.gpx", h.Name)
	assert.True(t, h.Version.Equal(decimal.RequireFromString("1.1")), h.Version.String())
	assert.Equal(t, "Ann", h.Creator)
}

func TestDecodeHeaderFailures(t *testing.T) {
	p := NewParser()
	ctx := context.Background()

	_, err := p.DecodeHeader(ctx, filepath.Join("testdata", "no_creator.gpx"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = p.DecodeHeader(ctx, filepath.Join("testdata", "garbage.gpx"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = p.DecodeHeader(ctx, filepath.Join("testdata", "missing.gpx"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeRoutes(t *testing.T) {
	p := NewParser()
	routes, err := p.DecodeRoutes(context.Background(), filepath.Join("testdata", "sample.gpx"))
	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, "Morning Walk", routes[0].Name)
	assert.Equal(t, "140", routes[0].Length.String())

	assert.Equal(t, "Unnamed route 1", routes[1].Name)
	assert.True(t, routes[1].Length.IsZero())

	assert.Equal(t, "Unnamed route 2", routes[2].Name)
	assert.Equal(t, "110", routes[2].Length.String())

	for _, r := range routes[1:] {
		assert.True(t, p.IsUnnamed(r.Name), r.Name)
	}
	assert.False(t, p.IsUnnamed(routes[0].Name))
}

func TestIsUnnamed(t *testing.T) {
	p := NewParser()
	assert.True(t, p.IsUnnamed("Unnamed route 12"))
	assert.False(t, p.IsUnnamed("Unnamed route"))
	assert.False(t, p.IsUnnamed("My Unnamed route 1"))
	assert.False(t, p.IsUnnamed("Unnamed Trail"))
}

func TestDecodeWaypoints(t *testing.T) {
	p := NewParser()
	ctx := context.Background()
	path := filepath.Join("testdata", "sample.gpx")

	pts, err := p.DecodeWaypoints(ctx, path, "Morning Walk")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.True(t, pts[0].Latitude.Equal(decimal.RequireFromString("43.537187")))
	assert.True(t, pts[0].Longitude.Equal(decimal.RequireFromString("-80.227608")))
	require.NotNil(t, pts[0].Name)
	assert.Equal(t, "Gate", *pts[0].Name)
	assert.Nil(t, pts[1].Name)

	// unnamed routes are addressed by their placeholder
	pts, err = p.DecodeWaypoints(ctx, path, "Unnamed route 2")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.True(t, pts[0].Latitude.Equal(decimal.NewFromInt(45)))

	pts, err = p.DecodeWaypoints(ctx, path, "No Such Route")
	require.NoError(t, err)
	assert.Empty(t, pts)
}

func TestSummary(t *testing.T) {
	p := NewParser()
	s, err := p.Summary(context.Background(), filepath.Join("testdata", "sample.gpx"))
	require.NoError(t, err)

	assert.Equal(t, "sample.gpx", s.Name)
	assert.Equal(t, "Ann", s.Creator)
	assert.Equal(t, 1, s.NumWaypoints)
	assert.Equal(t, 3, s.NumRoutes)
	assert.Equal(t, 1, s.NumTracks)
}

func TestComponents(t *testing.T) {
	p := NewParser()
	comps, err := p.Components(context.Background(), filepath.Join("testdata", "sample.gpx"))
	require.NoError(t, err)
	require.Len(t, comps, 4)

	assert.Equal(t, "Route 1", comps[0].Component)
	assert.Equal(t, "Morning Walk", comps[0].Name)
	assert.Equal(t, 2, comps[0].NumPoints)
	assert.False(t, comps[0].Loop)

	assert.Equal(t, "Route 2", comps[1].Component)
	assert.Equal(t, "None", comps[1].Name)

	assert.Equal(t, "Track 1", comps[3].Component)
	assert.Equal(t, "Loop", comps[3].Name)
	assert.Equal(t, 4, comps[3].NumPoints)
	assert.Equal(t, "330", comps[3].Length.String())
	assert.True(t, comps[3].Loop)
}

func TestOtherData(t *testing.T) {
	p := NewParser()
	ctx := context.Background()
	path := filepath.Join("testdata", "sample.gpx")

	data, err := p.OtherData(ctx, path, "Morning Walk")
	require.NoError(t, err)
	assert.Equal(t, []OtherData{
		{Name: "cmt", Value: "bring water"},
		{Name: "desc", Value: "along the river"},
	}, data)

	data, err = p.OtherData(ctx, path, "Loop")
	require.NoError(t, err)
	assert.Equal(t, []OtherData{{Name: "desc", Value: "round the block"}}, data)

	data, err = p.OtherData(ctx, path, "nothing")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRename(t *testing.T) {
	p := NewParser()
	ctx := context.Background()
	path := copyFixture(t, "sample.gpx")

	ok, err := p.Rename(ctx, path, "Morning Walk", "Evening Walk")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Rename(ctx, path, "Loop", "Block")
	require.NoError(t, err)
	assert.True(t, ok)

	routes, err := p.DecodeRoutes(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Evening Walk", routes[0].Name)

	comps, err := p.Components(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Block", comps[3].Name)

	ok, err = p.Rename(ctx, path, "Morning Walk", "again")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	p := NewParser()
	ctx := context.Background()
	schema := filepath.Join("testdata", "gpx.xsd")

	assert.True(t, p.Validate(ctx, filepath.Join("testdata", "sample.gpx"), schema))
	assert.False(t, p.Validate(ctx, filepath.Join("testdata", "no_creator.gpx"), schema))
	assert.False(t, p.Validate(ctx, filepath.Join("testdata", "garbage.gpx"), schema))
	assert.False(t, p.Validate(ctx, filepath.Join("testdata", "sample.gpx"), ""))
	assert.False(t, p.Validate(ctx, filepath.Join("testdata", "sample.gpx"), filepath.Join("testdata", "missing.xsd")))
}

func TestCancelledContext(t *testing.T) {
	p := NewParser()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.DecodeRoutes(ctx, filepath.Join("testdata", "sample.gpx"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, p.Validate(ctx, filepath.Join("testdata", "sample.gpx"), filepath.Join("testdata", "gpx.xsd")))
}
