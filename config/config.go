package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigLogLevel      = "log-level"
	ConfigLogPretty     = "log-pretty"
	ConfigWeightsPath   = "weights-path"
	ConfigDataPath      = "data-path"
	ConfigFieldWidth    = "field-width"
	ConfigFieldHeight   = "field-height"
	ConfigAutoplayGames = "autoplay-games"
	ConfigThreads       = "threads"
	ConfigSeed          = "seed"
	ConfigGarbageEvery  = "garbage-every"
	ConfigMaxPieces     = "max-pieces"
	ConfigAutoplayLog   = "autoplay-log"
	ConfigResultsDB     = "results-db"
	ConfigNatsURL       = "nats-url"
	ConfigNatsChannel   = "nats-channel"
	ConfigHTTPAddr      = "http-addr"
)

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config holding only default values; nothing is
// read from flags or the environment.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	setDefaults(c.Viper)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigLogLevel, "info")
	v.SetDefault(ConfigLogPretty, true)
	v.SetDefault(ConfigWeightsPath, "")
	v.SetDefault(ConfigDataPath, "./data")
	v.SetDefault(ConfigFieldWidth, 10)
	v.SetDefault(ConfigFieldHeight, 20)
	v.SetDefault(ConfigAutoplayGames, 100)
	v.SetDefault(ConfigThreads, 4)
	v.SetDefault(ConfigSeed, 0)
	v.SetDefault(ConfigGarbageEvery, 0)
	v.SetDefault(ConfigMaxPieces, 5000)
	v.SetDefault(ConfigAutoplayLog, "/tmp/blockbot_autoplay.csv")
	v.SetDefault(ConfigResultsDB, "")
	v.SetDefault(ConfigNatsURL, "")
	v.SetDefault(ConfigNatsChannel, "blockbot.decide")
	v.SetDefault(ConfigHTTPAddr, "")
}

// Load reads settings from command-line args, then from BLOCKBOT_*
// environment variables, falling back to defaults.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("blockbot", pflag.ContinueOnError)
	fs.String(ConfigLogLevel, "info", "log level: debug, info, warn, disabled")
	fs.Bool(ConfigLogPretty, true, "human readable console logs on stderr")
	fs.String(ConfigWeightsPath, "", "yaml file with heuristic weights; empty uses the built-in weights")
	fs.String(ConfigDataPath, "./data", "directory holding weight profiles and autoplay output")
	fs.Int(ConfigFieldWidth, 10, "field width for autoplay and the shell")
	fs.Int(ConfigFieldHeight, 20, "field height for autoplay and the shell")
	fs.Int(ConfigAutoplayGames, 100, "number of self-play games")
	fs.Int(ConfigThreads, 4, "self-play worker goroutines")
	fs.Uint64(ConfigSeed, 0, "base seed for self-play piece sequences")
	fs.Int(ConfigGarbageEvery, 0, "add one garbage row every n pieces in self-play; 0 disables")
	fs.Int(ConfigMaxPieces, 5000, "stop a self-play game after this many pieces")
	fs.String(ConfigAutoplayLog, "/tmp/blockbot_autoplay.csv", "per-piece self-play csv log")
	fs.String(ConfigResultsDB, "", "sqlite file to store self-play results in")
	fs.String(ConfigNatsURL, "", "serve decisions over nats at this url instead of stdin")
	fs.String(ConfigNatsChannel, "blockbot.decide", "nats subject decisions are served on")
	fs.String(ConfigHTTPAddr, "", "serve decisions over http on this address instead of stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("blockbot")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return nil
}

// AdjustRelativePaths resolves ./-prefixed paths against basepath, which
// is usually the directory of the executable.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigDataPath, ConfigWeightsPath} {
		p := c.GetString(key)
		if strings.HasPrefix(p, "./") {
			c.Set(key, filepath.Join(basepath, p))
		}
	}
}
