package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kittclouds/gokitt/pkg/tsrank"
)

// Config holds the CLI's tunables: weight table and normalization method,
// loaded from a YAML file (spec.md §4.3/§4.7 made user-configurable).
type Config struct {
	Weights struct {
		D float64 `yaml:"d"`
		C float64 `yaml:"c"`
		B float64 `yaml:"b"`
		A float64 `yaml:"a"`
	} `yaml:"weights"`
	Method uint32 `yaml:"method"`
}

// defaultConfig mirrors tsrank.DefaultWeights with no normalization.
func defaultConfig() Config {
	var cfg Config
	cfg.Weights.D = tsrank.DefaultWeights[tsrank.WeightD]
	cfg.Weights.C = tsrank.DefaultWeights[tsrank.WeightC]
	cfg.Weights.B = tsrank.DefaultWeights[tsrank.WeightB]
	cfg.Weights.A = tsrank.DefaultWeights[tsrank.WeightA]
	return cfg
}

// loadConfig reads a YAML config file, falling back to defaults if path
// is empty or the file doesn't exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// weightTable converts the config's weights into a tsrank.WeightTable.
func (c Config) weightTable() tsrank.WeightTable {
	return tsrank.WeightTable{c.Weights.D, c.Weights.C, c.Weights.B, c.Weights.A}
}
