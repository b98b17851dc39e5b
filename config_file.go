package otpAuth

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML file over DefaultConfig. Durations use Go syntax
// ("30s", "5m"). Assertion keys are read from private_key_file and
// public_key_file when set. The result is validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig is LoadConfig for in-memory YAML. Relative key file paths are
// resolved against the working directory.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if path := cfg.Assertion.PrivateKeyFile; path != "" {
		key, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read assertion private key: %w", err)
		}
		cfg.Assertion.PrivateKey = key
	}
	if path := cfg.Assertion.PublicKeyFile; path != "" {
		key, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read assertion public key: %w", err)
		}
		cfg.Assertion.PublicKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
