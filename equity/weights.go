// Package equity turns the positional features of a field into a single
// placement score.
package equity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Features are the raw measurements the heuristic is built from.
type Features struct {
	// Heights holds the height of every column; empty columns are 0.
	Heights        []int
	HeightSum      int
	CompletedLines int
	BlockedHoles   int
	Roughness      int
}

// Weights are the coefficients applied to each feature.
type Weights struct {
	Height    float64 `yaml:"height" json:"height"`
	Lines     float64 `yaml:"lines" json:"lines"`
	Holes     float64 `yaml:"holes" json:"holes"`
	Roughness float64 `yaml:"roughness" json:"roughness"`
}

// DefaultWeights are the hand-tuned weights the bot plays with.
var DefaultWeights = Weights{
	Height:    -0.510066,
	Lines:     0.760666,
	Holes:     -0.35663,
	Roughness: -0.184483,
}

// Calculator scores a set of features.
type Calculator interface {
	Equity(f Features) float64
}

func (w Weights) Equity(f Features) float64 {
	return w.Height*float64(f.HeightSum) +
		w.Lines*float64(f.CompletedLines) +
		w.Holes*float64(f.BlockedHoles) +
		w.Roughness*float64(f.Roughness)
}

func (w Weights) String() string {
	return fmt.Sprintf("<height: %.6f lines: %.6f holes: %.6f roughness: %.6f>",
		w.Height, w.Lines, w.Holes, w.Roughness)
}

// LoadWeights reads a weight profile from a yaml file. Weights missing from
// the file keep their default value.
func LoadWeights(path string) (Weights, error) {
	bts, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, err
	}
	return ParseWeights(bts)
}

// ParseWeights parses a yaml weight profile.
func ParseWeights(bts []byte) (Weights, error) {
	w := DefaultWeights
	if err := yaml.Unmarshal(bts, &w); err != nil {
		return Weights{}, fmt.Errorf("parsing weights: %w", err)
	}
	return w, nil
}
