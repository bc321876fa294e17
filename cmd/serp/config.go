package main

import (
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// defaultConfigPath is read when present, before any --config file.
const defaultConfigPath = "~/.serp/config.yaml"

// YAMLConfig loads flag values from YAML. Top-level keys set global flags
// and flags shared by every command; a mapping keyed by a command name sets
// that command's flags and wins over the top level:
//
//	verbose: true
//	fetch:
//	  concurrency: 8
//	  user-agent: Mozilla/5.0
func YAMLConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return kong.ResolverFunc(func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if parent != nil && parent.Command != nil {
			if section, ok := values[parent.Command.Name].(map[string]any); ok {
				if v, ok := section[flag.Name]; ok {
					return scalar(flag.Name, v)
				}
			}
		}
		if v, ok := values[flag.Name]; ok {
			return scalar(flag.Name, v)
		}
		return nil, nil
	}), nil
}

// scalar renders a YAML value the way it would be typed on the command line.
func scalar(name string, v any) (any, error) {
	switch v.(type) {
	case map[string]any:
		return nil, fmt.Errorf("config: %s must be a scalar", name)
	case []any:
		return nil, fmt.Errorf("config: %s must be a scalar", name)
	case nil:
		return nil, nil
	}
	return fmt.Sprint(v), nil
}
