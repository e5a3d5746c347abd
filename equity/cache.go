package equity

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lentono/blockbot/cache"
	"github.com/lentono/blockbot/config"
)

const weightsKeyPrefix = "weights:"

func WeightsCacheLoadFunc(cfg *config.Config, key string) (any, error) {
	// Key looks like weights:<path>
	path, ok := strings.CutPrefix(key, weightsKeyPrefix)
	if !ok {
		return nil, errors.New("weightscacheloadfunc - bad cache key: " + key)
	}
	w, err := LoadWeights(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Stringer("weights", w).Msg("loaded-weights")
	return w, nil
}

// WeightsFromConfig returns the weights named by the weights-path setting,
// or DefaultWeights when no path is set.
func WeightsFromConfig(cfg *config.Config) (Weights, error) {
	path := cfg.GetString(config.ConfigWeightsPath)
	if path == "" {
		return DefaultWeights, nil
	}
	obj, err := cache.Load(cfg, weightsKeyPrefix+path, WeightsCacheLoadFunc)
	if err != nil {
		return Weights{}, err
	}
	return obj.(Weights), nil
}
