package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a YAML path and where it came from.
//
// Paths use the file's keys, with list indices in brackets:
//
//	border_width
//	reserved_space.top
//	layouts[0].master_factor
//	rules[1].class
//	keybinds[3]
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	for p := path; p != ""; p = parentPath(p) {
		if src, ok := res.Sources[p]; ok {
			return value, src, nil
		}
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return nil, err
	}

	cur := &node
	for _, step := range splitPath(path) {
		switch cur.Kind {
		case yaml.MappingNode:
			var next *yaml.Node
			for i := 0; i+1 < len(cur.Content); i += 2 {
				if cur.Content[i].Value == step {
					next = cur.Content[i+1]
					break
				}
			}
			if next == nil {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			cur = next
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(step)
			if err != nil || idx < 0 || idx >= len(cur.Content) {
				return nil, fmt.Errorf("index %q out of range in %s", step, path)
			}
			cur = cur.Content[idx]
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	}

	var out any
	if err := cur.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// splitPath turns "rules[2].class" into ["rules", "2", "class"].
func splitPath(path string) []string {
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	var out []string
	for _, part := range strings.Split(path, ".") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
