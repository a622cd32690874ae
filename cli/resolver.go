package cli

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tlc/log"
)

// resolve is a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The file is a flat mapping from flag name to value, as written by the init
// command. Flag names may use underscores in place of hyphens:
//
//	log-level: debug
//	log_format: json
//	log-pretty: true
//
// Command-line flags override config file values. A malformed file is logged
// and ignored so that a bad config never prevents the CLI from starting.
func resolve(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any

	err := yaml.NewDecoder(r).Decode(&raw)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring malformed configuration", slog.Any("error", err))
		}

		return config{}, nil
	}

	conf := make(config, len(raw))

	for key, value := range raw {
		conf[key] = kongValue(value)
	}

	return conf, nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// kongValue converts a decoded YAML value into the form kong's mappers
// accept. Kong requires numbers as strings for parsing.
func kongValue(v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = kongValue(e)
		}

		return out
	default:
		return v
	}
}
