package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads flag defaults from YAML. Top-level keys apply to global
// flags and a section named after a command applies to that command's flags:
//
//	verbose: true
//	crawl:
//	  depth: 2
//	  max-pages: 50
//	  retry-delay: 1s
//
// Keys may use dashes or underscores.
func YAMLLoader(r io.Reader) (kong.Resolver, error) {
	var values map[string]any
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return yamlResolver(values), nil
}

type yamlResolver map[string]any

func (yamlResolver) Validate(*kong.Application) error { return nil }

func (r yamlResolver) Resolve(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := r[parent.Command.Name].(map[string]any); ok {
			if v, ok := lookup(section, flag.Name); ok {
				return scalar(flag.Name, v)
			}
		}
	}
	if v, ok := lookup(r, flag.Name); ok {
		return scalar(flag.Name, v)
	}
	return nil, nil
}

func lookup(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	v, ok := m[strings.ReplaceAll(name, "-", "_")]
	return v, ok
}

// scalar renders a YAML value as the flag text kong would parse.
func scalar(name string, v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ","), nil
	case map[string]any:
		return nil, fmt.Errorf("config key %q: expected a value, got a mapping", name)
	default:
		return fmt.Sprint(v), nil
	}
}
