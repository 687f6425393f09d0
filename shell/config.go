package shell

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hagabaka/rbot-plugins/shell/expander"
)

// DefaultJoin is the separator between the replies of one dispatched
// command. The reference behavior joins with a single space.
const DefaultJoin = " "

type Config struct {
	MaxDepth int    `yaml:"max_depth"`
	Join     string `yaml:"join"`
	Shell    string `yaml:"shell"`
	Prompt   string `yaml:"prompt"`
	Debug    bool   `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		MaxDepth: expander.DefaultMaxDepth,
		Join:     DefaultJoin,
		Shell:    "sh",
		Prompt:   "> ",
	}
}

// LoadConfig reads a YAML config file on top of the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	var conf = DefaultConfig()
	if path == "" {
		return conf, nil
	}
	var byts, readErr = os.ReadFile(path)
	if readErr != nil {
		return conf, readErr
	}
	if err := yaml.Unmarshal(byts, &conf); err != nil {
		return conf, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	return conf, nil
}
