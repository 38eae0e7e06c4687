package envfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies how an environment file is decoded.
type Format int

const (
	FormatDotenv Format = iota
	FormatJSON
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "dotenv"
	}
}

// DetectFormat picks a format from the file extension.
// Names like .env.dev have no structured extension and are dotenv.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatDotenv
	}
}

// ParseFile reads path and decodes it according to its extension.
func ParseFile(path string) (*Vars, error) {
	return ParseFileAs(path, DetectFormat(path))
}

// ParseFileAs reads path and decodes it in format, whatever its extension.
func ParseFileAs(path string, format Format) (*Vars, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vars, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s as %s: %w", path, format, err)
	}
	return vars, nil
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Vars, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	case FormatTOML:
		return parseTOML(data)
	default:
		return ParseDotenv(string(data)), nil
	}
}

// parseYAML walks the document node tree so keys keep their document order.
func parseYAML(data []byte) (*Vars, error) {
	vars := NewVars()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return vars, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping")
	}
	flattenYAML(vars, "", root)
	return vars, nil
}

func flattenYAML(vars *Vars, prefix string, node *yaml.Node) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := joinKey(prefix, node.Content[i].Value)
		value := node.Content[i+1]
		if value.Kind == yaml.AliasNode && value.Alias != nil {
			value = value.Alias
		}

		switch value.Kind {
		case yaml.MappingNode:
			flattenYAML(vars, key, value)
		case yaml.ScalarNode:
			vars.Set(key, value.Value)
		default:
			out, err := yaml.Marshal(value)
			if err != nil {
				vars.Set(key, "")
				continue
			}
			vars.Set(key, strings.TrimSpace(string(out)))
		}
	}
}

// parseJSON reads the top-level object token by token so keys keep their document order.
func parseJSON(data []byte) (*Vars, error) {
	vars := NewVars()

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj orderedObject
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	obj.flatten(vars, "")
	return vars, nil
}

type orderedObject struct {
	keys   []string
	values map[string]any
}

func (o *orderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("top level must be an object")
	}

	o.values = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var child orderedObject
			if err := json.Unmarshal(trimmed, &child); err != nil {
				return err
			}
			o.set(key, &child)
			continue
		}

		var value any
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		o.set(key, value)
	}
	_, err = dec.Token()
	return err
}

func (o *orderedObject) set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *orderedObject) flatten(vars *Vars, prefix string) {
	for _, k := range o.keys {
		key := joinKey(prefix, k)
		switch v := o.values[k].(type) {
		case *orderedObject:
			v.flatten(vars, key)
		case string:
			vars.Set(key, v)
		case nil:
			vars.Set(key, "")
		default:
			out, err := json.Marshal(v)
			if err != nil {
				vars.Set(key, fmt.Sprint(v))
				continue
			}
			vars.Set(key, string(out))
		}
	}
}

// parseTOML decodes into a map, so keys are emitted sorted at each level.
func parseTOML(data []byte) (*Vars, error) {
	vars := NewVars()

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	flattenMap(vars, "", doc)
	return vars, nil
}

func flattenMap(vars *Vars, prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		key := joinKey(prefix, k)
		switch v := m[k].(type) {
		case map[string]any:
			flattenMap(vars, key, v)
		case string:
			vars.Set(key, v)
		default:
			vars.Set(key, fmt.Sprint(v))
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
