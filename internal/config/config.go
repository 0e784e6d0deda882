// Package config loads viddup's optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/viddup/internal/digest"
	"github.com/idelchi/viddup/internal/enumerate"
	"github.com/idelchi/viddup/internal/errs"
	"github.com/idelchi/viddup/internal/hasher"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "viddup.yaml"

// Config holds the scan settings that can be kept in a file.
type Config struct {
	// Recursive descends into subdirectories.
	Recursive bool `yaml:"recursive"`
	// Extensions are the accepted video extensions.
	Extensions []string `yaml:"extensions"`
	// Algorithm is the digest algorithm name.
	Algorithm string `yaml:"algorithm"`
	// ChunkSize is the read size for full digests, in humanized bytes (e.g. "64KiB").
	ChunkSize string `yaml:"chunk_size"`
	// PartialSize is the prefix length for partial digests, in humanized bytes.
	PartialSize string `yaml:"partial_size"`
	// Workers bounds hashing concurrency (0 = number of CPUs).
	Workers int `yaml:"workers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Extensions:  append([]string(nil), enumerate.DefaultExtensions...),
		Algorithm:   digest.Default,
		ChunkSize:   humanize.IBytes(hasher.DefaultChunkSize),
		PartialSize: humanize.IBytes(hasher.DefaultPartialSize),
	}
}

// Load reads the config at path. A missing file yields Default().
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, errs.Wrap(fmt.Errorf("reading config file: %w", err), errs.CodeInvalidConfig, "load", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(fmt.Errorf("parsing config YAML: %w", err), errs.CodeInvalidConfig, "load", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if len(c.Extensions) == 0 || len(enumerate.ExtensionSet(c.Extensions)) == 0 {
		return errs.New(errs.CodeInvalidConfig, "at least one extension is required")
	}

	if _, err := digest.Lookup(c.Algorithm); err != nil {
		return err
	}

	if _, err := ParseSize(c.ChunkSize); err != nil {
		return fmt.Errorf("chunk_size: %w", err)
	}

	if _, err := ParseSize(c.PartialSize); err != nil {
		return fmt.Errorf("partial_size: %w", err)
	}

	if c.Workers < 0 {
		return errs.New(errs.CodeInvalidConfig, "workers cannot be negative")
	}

	return nil
}

// ChunkBytes returns the chunk size in bytes.
func (c *Config) ChunkBytes() int {
	n, _ := ParseSize(c.ChunkSize)

	return n
}

// PartialBytes returns the partial digest prefix length in bytes.
func (c *Config) PartialBytes() int {
	n, _ := ParseSize(c.PartialSize)

	return n
}

// maxSize caps sizes so they fit a single in-memory buffer.
const maxSize = 1 << 30

// ParseSize parses a humanized, strictly positive byte size such as "1024", "4KiB" or "1MB".
func ParseSize(s string) (int, error) {
	size, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, errs.New(errs.CodeInvalidConfig, "invalid size %q: %v", s, err)
	}

	if size == 0 || size > maxSize {
		return 0, errs.New(errs.CodeInvalidConfig, "size %q must be between 1B and %s", s, humanize.IBytes(maxSize))
	}

	return int(size), nil
}
