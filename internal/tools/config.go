package tools

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"xattrtest/pkg/utils"
)

const (
	// XattrSizeMax is the largest extended attribute value Linux accepts.
	XattrSizeMax = 65536
	// PathMax bounds the target directory path, terminator included.
	PathMax = 4096
	// MinRandomSize is the lower bound of randomly sized attributes.
	MinRandomSize = 16

	DefaultPath   = "/tmp/xattrtest"
	DefaultScript = "/bin/true"

	StoreFS = "fs"
	StoreS3 = "s3"
)

// Config is the validated set of options for one run.
type Config struct {
	Verbose     int    `yaml:"verbose"`
	Verify      bool   `yaml:"verify"`
	Nth         int    `yaml:"nth"`
	Files       int    `yaml:"files"`
	Xattrs      int    `yaml:"xattrs"`
	Size        int    `yaml:"size"`
	Path        string `yaml:"path"`
	SyncCaches  bool   `yaml:"synccaches"`
	DropCaches  bool   `yaml:"dropcaches"`
	Script      string `yaml:"script"`
	Seed        int64  `yaml:"seed"`
	RandomSize  bool   `yaml:"randomSize"`
	RandomValue bool   `yaml:"randomValue"`
	Keep        bool   `yaml:"keep"`
	Store       string `yaml:"store"`
}

func DefaultConfig() *Config {
	return &Config{
		Files:  1000,
		Xattrs: 1,
		Size:   1,
		Path:   DefaultPath,
		Script: DefaultScript,
		Store:  StoreFS,
	}
}

// ConfigError is an invalid option or option combination. No phase runs
// when one is returned.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

func (c *Config) Validate() error {
	if c.Verify && c.RandomValue {
		return configErrorf("-y and -R are incompatible")
	}
	if c.Size > XattrSizeMax {
		return configErrorf("the size may not be greater than %d", XattrSizeMax)
	}
	if c.Size <= 0 {
		return configErrorf("the size must be positive, got %d", c.Size)
	}
	if c.Files <= 0 {
		return configErrorf("the file count must be positive, got %d", c.Files)
	}
	if c.Xattrs <= 0 {
		return configErrorf("the xattr count must be positive, got %d", c.Xattrs)
	}
	if c.Nth < 0 {
		return configErrorf("nth may not be negative, got %d", c.Nth)
	}
	if c.RandomSize && c.Size <= MinRandomSize {
		return configErrorf("-r needs a size greater than %d, got %d", MinRandomSize, c.Size)
	}
	if c.Verify && !c.RandomSize && c.Size < utils.MinPatternSize {
		return configErrorf("-y needs a size of at least %d to hold the size header, got %d",
			utils.MinPatternSize, c.Size)
	}
	if c.Path == "" {
		return configErrorf("the path may not be empty")
	}
	switch c.Store {
	case StoreFS, StoreS3:
	default:
		return configErrorf("unknown store %q, want %q or %q", c.Store, StoreFS, StoreS3)
	}
	return nil
}

// Dump writes the configuration as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
