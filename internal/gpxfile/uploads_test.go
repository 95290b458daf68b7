package gpxfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadsListAndSchema(t *testing.T) {
	dir := t.TempDir()
	u, err := NewUploads(dir)
	require.NoError(t, err)

	name, err := u.SchemaName()
	require.NoError(t, err)
	assert.Empty(t, name)

	for _, n := range []string{"b.gpx", "a.gpx", "gpx.xsd", ".hidden"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.gpx"), 0o755))

	names, err := u.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.gpx", "b.gpx", "gpx.xsd"}, names)

	name, err = u.SchemaName()
	require.NoError(t, err)
	assert.Equal(t, "gpx.xsd", name)

	assert.True(t, u.Exists("a.gpx"))
	assert.False(t, u.Exists("sub.gpx"))
	assert.False(t, u.Exists("nope.gpx"))
}

func TestUploadsPathRejectsTraversal(t *testing.T) {
	u := &Uploads{Dir: t.TempDir()}

	for _, bad := range []string{"", ".", "..", "../x.gpx", "a/b.gpx", `a\b.gpx`} {
		_, err := u.Path(bad)
		assert.ErrorIs(t, err, ErrBadName, bad)
	}

	p, err := u.Path("trip1.gpx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(u.Dir, "trip1.gpx"), p)
}

func TestFileKinds(t *testing.T) {
	assert.True(t, IsGPXFile("x.GPX"))
	assert.True(t, IsSchemaFile("gpx.xsd"))
	assert.False(t, IsGPXFile("x.xsd"))
	assert.False(t, IsSchemaFile("xsd"))
}
