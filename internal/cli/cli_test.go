package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"rentgrip/internal/catalog"
	"rentgrip/internal/config"
	"rentgrip/internal/filters"
)

// writeSample writes the sample catalog into a temp dir and returns its path
func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, catalog.WriteFile(path, sampleCatalog()))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func ids(r queryResult) []int64 {
	out := make([]int64, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.ID
	}
	return out
}

func TestQueryTextFiltersByBrand(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "--catalog", path, "query", "--brand", "Bosch")
	require.NoError(t, err)
	assert.Contains(t, out, "Cordless Drill")
	assert.Contains(t, out, "12/day")
	assert.NotContains(t, out, "Circular Saw")
	assert.Contains(t, out, "1-1 of 1 items, page 1/1, sorted by most-recent")
}

func TestQueryJSONSortAndPage(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "--catalog", path, "query", "--sort", "price-asc", "--page-size", "2", "-o", "json")
	require.NoError(t, err)

	var r queryResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 6, r.Total)
	assert.Equal(t, 3, r.TotalPages)
	assert.Equal(t, "price-asc", r.Sort)
	assert.Equal(t, []int64{1, 2}, ids(r))

	out, err = run(t, "--catalog", path, "query", "--sort", "price-asc", "--page-size", "2", "--page", "3", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, []int64{4, 6}, ids(r))
}

func TestQueryDefaultOrderIsMostRecent(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "--catalog", path, "query", "-o", "json")
	require.NoError(t, err)

	var r queryResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, []int64{6, 5, 4, 3, 2, 1}, ids(r))
}

func TestQueryCategoryAndPrice(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "--catalog", path, "query",
		"--category", "Tools/Power Tools", "--min-price", "10", "--max-price", "15", "-o", "yaml")
	require.NoError(t, err)

	var r queryResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &r))
	assert.Equal(t, []int64{1}, ids(r))

	out, err = run(t, "--catalog", path, "query", "--min-price", "40", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, []int64{6, 4}, ids(r))
}

func TestQuerySearchRanksBestMatchFirst(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "--catalog", path, "query", "tent", "-o", "json")
	require.NoError(t, err)

	var r queryResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "tent", r.Query)
	require.NotEmpty(t, r.Items)
	assert.Equal(t, int64(6), r.Items[0].ID)
}

func TestQueryNoMatches(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "--catalog", path, "query", "--brand", "Nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No items match.")
}

func TestQueryRejectsBadInput(t *testing.T) {
	path := writeSample(t)

	_, err := run(t, "--catalog", path, "query", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = run(t, "--catalog", path, "query", "--sort", "alphabetical")
	assert.ErrorContains(t, err, "unknown sort mode")

	_, err = run(t, "--catalog", path, "query", "--min-price", "30", "--max-price", "10")
	assert.ErrorIs(t, err, filters.ErrInvalidPriceRange)

	_, err = run(t, "--catalog", filepath.Join(t.TempDir(), "missing.json"), "query")
	assert.ErrorContains(t, err, "failed to load catalog")
}

func TestFacets(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "--catalog", path, "facets")
	require.NoError(t, err)
	assert.Contains(t, out, "Brands: Bosch, Coleman, Epson, Honda, JBL, Makita")
	assert.Contains(t, out, "Conditions: new, used")
	assert.Contains(t, out, "    Power Tools\n      Drills\n")
	assert.Contains(t, out, "Max price: 60")

	out, err = run(t, "--catalog", path, "facets", "-o", "json")
	require.NoError(t, err)
	var f facetsResult
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, []string{"Faro", "Lisbon", "Porto"}, f.Locations)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 60.0, *f.MaxPrice)
}

func TestInitWritesLoadableProject(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, config.FileName)

	cfgPath := filepath.Join(dir, config.FileName)
	out, err = run(t, "--config", cfgPath, "query", "-o", "json")
	require.NoError(t, err)
	var r queryResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 6, r.Total)

	_, err = run(t, "init", dir)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "init", "--force", dir)
	assert.NoError(t, err)
}

func TestImportIntoSQLite(t *testing.T) {
	path := writeSample(t)
	dsn := filepath.Join(t.TempDir(), "catalog.db")

	out, err := run(t, "import", path, "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 6 items")

	out, err = run(t, "--catalog", dsn, "query", "--condition", "new", "-o", "json")
	require.NoError(t, err)
	var r queryResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, []int64{6, 4, 1}, ids(r))
}

func TestParseCategoryPath(t *testing.T) {
	tests := []struct {
		in      string
		want    filters.CategoryPath
		wantErr bool
	}{
		{in: "Tools", want: filters.CategoryPath{Category: "Tools"}},
		{in: "Tools / Garden", want: filters.CategoryPath{Category: "Tools", Subcategory: "Garden"}},
		{in: "Tools/Garden/Mowers", want: filters.CategoryPath{Category: "Tools", Subcategory: "Garden", Leaf: "Mowers"}},
		{in: "", wantErr: true},
		{in: "Tools//Mowers", wantErr: true},
		{in: "a/b/c/d", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCategoryPath(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSQLitePath(t *testing.T) {
	assert.True(t, isSQLitePath("items.db"))
	assert.True(t, isSQLitePath("items.SQLite"))
	assert.False(t, isSQLitePath("items.json"))
}
