package equity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lentono/blockbot/config"
)

func TestEquity(t *testing.T) {
	f := Features{HeightSum: 10, CompletedLines: 1, BlockedHoles: 2, Roughness: 3}
	expected := -0.510066*10 + 0.760666 - 0.35663*2 - 0.184483*3
	assert.InDelta(t, expected, DefaultWeights.Equity(f), 1e-9)
	assert.Equal(t, 0.0, DefaultWeights.Equity(Features{}))
}

func TestParseWeightsKeepsDefaults(t *testing.T) {
	w, err := ParseWeights([]byte("lines: 3.5\nholes: -1\n"))
	assert.Nil(t, err)
	assert.Equal(t, 3.5, w.Lines)
	assert.Equal(t, -1.0, w.Holes)
	assert.Equal(t, DefaultWeights.Height, w.Height)
	assert.Equal(t, DefaultWeights.Roughness, w.Roughness)

	_, err = ParseWeights([]byte("lines: [1, 2"))
	assert.NotNil(t, err)
}

func TestWeightsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	w, err := WeightsFromConfig(cfg)
	assert.Nil(t, err)
	assert.Equal(t, DefaultWeights, w)

	path := filepath.Join(t.TempDir(), "weights.yaml")
	assert.Nil(t, os.WriteFile(path, []byte("height: -1.25\n"), 0o644))
	cfg.Set(config.ConfigWeightsPath, path)
	w, err = WeightsFromConfig(cfg)
	assert.Nil(t, err)
	assert.Equal(t, -1.25, w.Height)

	cfg.Set(config.ConfigWeightsPath, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = WeightsFromConfig(cfg)
	assert.NotNil(t, err)
}
