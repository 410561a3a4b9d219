package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"a.yaml", FormatYAML, true},
		{"a.YML", FormatYAML, true},
		{"dir/a.json", FormatJSON, true},
		{"a.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatOf(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeYAMLShapes(t *testing.T) {
	list := []byte("- id: a\n  name: A\n- id: b\n")
	recs, err := Decode(list, FormatYAML, "list.yaml")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "list.yaml", recs[1].Origin)

	mapping := []byte("locations:\n  - id: c\n")
	recs, err = Decode(mapping, FormatYAML, "map.yaml")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c", recs[0].ID)

	recs, err = Decode([]byte(""), FormatYAML, "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = Decode([]byte("just a scalar"), FormatYAML, "bad.yaml")
	assert.Error(t, err)

	_, err = Decode([]byte("- id: [unclosed"), FormatYAML, "broken.yaml")
	assert.ErrorContains(t, err, "broken.yaml")
}

func TestDecodeJSONShapes(t *testing.T) {
	recs, err := Decode([]byte(`[{"id":"a"}]`), FormatJSON, "a.json")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	recs, err = Decode([]byte(`{"locations":[{"id":"a"},{"id":"b"}]}`), FormatJSON, "b.json")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	_, err = Decode([]byte(`{"locations":`), FormatJSON, "c.json")
	assert.Error(t, err)

	_, err = Decode([]byte(`[]`), "toml", "d.toml")
	assert.Error(t, err)
}

func TestFileSourceYAML(t *testing.T) {
	recs, err := FileSource{Path: "testdata/world.yaml"}.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	syd := recs[0]
	assert.Equal(t, "L300-AA10", syd.ID)
	assert.Equal(t, "terrestrial", syd.Scale)
	assert.Equal(t, "UTC+10", syd.Timezone)
	assert.InDelta(t, -33.8568, syd.Coordinates.Lat, 1e-9)
	require.Len(t, syd.Connections, 1)
	assert.Equal(t, "L300-AB11", syd.Connections[0].To)

	tl, ok := syd.Tiles["AA10"]
	require.True(t, ok)
	require.Len(t, tl.Objects, 1)
	assert.True(t, tl.Objects[0].Blocks)
	assert.Equal(t, 1, tl.Objects[0].Z)
	require.Len(t, tl.Markers, 1)
	assert.Equal(t, "capital", tl.Markers[0].Type)
}

func TestFileSourceErrors(t *testing.T) {
	_, err := FileSource{Path: "testdata/missing.yaml"}.Records(context.Background())
	assert.Error(t, err)

	_, err = FileSource{Path: "testdata/dir/README.txt"}.Records(context.Background())
	assert.ErrorContains(t, err, "unknown extension")
}

func TestDirSourceOrder(t *testing.T) {
	recs, err := DirSource{Dir: "testdata/dir"}.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "earth-a", recs[0].ID)
	assert.Equal(t, "orbit-a", recs[1].ID)
	assert.Equal(t, filepath.Join("testdata/dir", "02-space.json"), recs[1].Origin)
	assert.Contains(t, recs[1].Tiles, "ba05")
}

func TestDirSourceBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("- id: ok\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("{"), 0o600))

	_, err := DirSource{Dir: dir}.Records(context.Background())
	assert.ErrorContains(t, err, "b.json")
}

func TestPathSource(t *testing.T) {
	src, err := PathSource("testdata/dir")
	require.NoError(t, err)
	assert.IsType(t, DirSource{}, src)

	src, err = PathSource("testdata/world.yaml")
	require.NoError(t, err)
	assert.IsType(t, FileSource{}, src)

	_, err = PathSource("testdata/nope")
	assert.Error(t, err)
}

func TestSliceSourceCopies(t *testing.T) {
	src := SliceSource{{ID: "a"}}
	recs, err := src.Records(context.Background())
	require.NoError(t, err)
	recs[0].ID = "mutated"
	assert.Equal(t, "a", src[0].ID)
}
