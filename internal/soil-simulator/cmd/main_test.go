package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRecommendLocal(t *testing.T) {
	out, err := run(t, "recommend",
		"--nitrogen", "50", "--phosphorus", "30", "--potassium", "40", "--ph", "6.2",
		"--moisture", "40", "--water", "80", "--location", "Chennai")
	require.NoError(t, err)

	var got recommendOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "tamil nadu", got.Region)
	assert.Equal(t, "rules", string(got.Path))
	require.Len(t, got.Crops, 5)
	assert.Equal(t, "Rice", got.Crops[0].Name)
	assert.Equal(t, 44000, got.Crops[0].ProfitEstimate)
}

func TestRecommendNeedsAllReadings(t *testing.T) {
	_, err := run(t, "recommend", "--nitrogen", "50")
	assert.Error(t, err)
}

func TestRecommendWithTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	yaml := "cities:\n  - city: panaji\n    region: goa\nregions:\n  - region: goa\n    prices:\n      Rice: 2500\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	out, err := run(t, "--tables", path, "region", "Panaji")
	require.NoError(t, err)
	assert.Contains(t, out, "region: goa\n")
	assert.Contains(t, out, "Rice")
	assert.Contains(t, out, "board: unknown\n")
}

func TestRegion(t *testing.T) {
	out, err := run(t, "region", "somewhere", "dry")
	require.NoError(t, err)
	assert.Contains(t, out, "region: (none, default profits)")
	assert.Contains(t, out, "board: unknown")

	// bihar has a board but no price row
	out, err = run(t, "region", "Patna")
	require.NoError(t, err)
	assert.Contains(t, out, "region: bihar\n")
	assert.NotContains(t, out, "/quintal")
	assert.Contains(t, out, "board: bihar")

	out, err = run(t, "region", "near", "Ludhiana")
	require.NoError(t, err)
	assert.Contains(t, out, "region: punjab")
	assert.Contains(t, out, "2100")
	assert.Contains(t, out, "board: punjab")

	_, err = run(t, "region")
	assert.Error(t, err)
}
