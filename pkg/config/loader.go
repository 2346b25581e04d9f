package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var envRef = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// Load reads a YAML config file, expanding ${VAR} references from the
// environment first.
func Load(path string, logger *zap.Logger) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	b = envRef.ReplaceAllFunc(b, func(m []byte) []byte {
		k := string(envRef.FindSubmatch(m)[1])
		val := os.Getenv(k)
		if val == "" {
			logger.Warn("env variable is empty during config expansion",
				zap.String("file", path),
				zap.String("var", k))
		}
		return []byte(val)
	})

	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	switch f.Source {
	case "", "command", "device":
	default:
		return File{}, fmt.Errorf("%s: unknown source %q", path, f.Source)
	}
	for _, d := range []string{f.RefreshInterval, f.FetchTimeout} {
		if d == "" {
			continue
		}
		if v, err := time.ParseDuration(d); err != nil || v <= 0 {
			return File{}, fmt.Errorf("%s: invalid duration %q", path, d)
		}
	}
	if f.MaxConns < 0 {
		return File{}, fmt.Errorf("%s: maxConns must not be negative", path)
	}
	return f, nil
}
