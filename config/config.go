// Package config holds the settings shared by the btcdecode command-line
// tools.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

type Config struct {
	Network  string `json:"network"`
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
}

var allowedLogLevels = map[string]struct{}{
	"trace":    {},
	"debug":    {},
	"info":     {},
	"warn":     {},
	"error":    {},
	"critical": {},
	"off":      {},
}

var networks = map[string]*chaincfg.Params{
	"mainnet":  &chaincfg.MainNetParams,
	"testnet":  &chaincfg.TestNet3Params,
	"testnet3": &chaincfg.TestNet3Params,
	"regtest":  &chaincfg.RegressionNetParams,
	"signet":   &chaincfg.SigNetParams,
	"simnet":   &chaincfg.SimNetParams,
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".btcdecode"
	}
	return filepath.Join(home, ".btcdecode")
}

func DefaultConfig() Config {
	return Config{
		Network:  "mainnet",
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
	}
}

// Load reads a JSON config file over the defaults. A missing file is not an
// error; fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Network) == "" {
		return errors.New("network is required")
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	logLevel := strings.ToLower(strings.TrimSpace(c.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// Params returns the btcd network parameters named by c.Network.
func (c Config) Params() (*chaincfg.Params, error) {
	p, ok := networks[strings.ToLower(strings.TrimSpace(c.Network))]
	if !ok {
		return nil, fmt.Errorf("unknown network %q", c.Network)
	}
	return p, nil
}
