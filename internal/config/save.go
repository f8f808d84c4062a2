package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/signup/internal/log"
)

// SettableKeys lists the keys SetValue accepts, with their YAML tag.
var SettableKeys = map[string]string{
	"endpoint":              "!!str",
	"debug":                 "!!bool",
	"log_file":              "!!str",
	"log_level":             "!!str",
	"ui.show_footer":        "!!bool",
	"ui.width":              "!!int",
	"tracing.enabled":       "!!bool",
	"tracing.exporter":      "!!str",
	"tracing.file_path":     "!!str",
	"tracing.otlp_endpoint": "!!str",
	"tracing.sample_rate":   "!!float",
}

// SetValue updates one dotted key in the config file, creating the file and
// any missing parent mappings. Comments elsewhere in the file are preserved.
func SetValue(configPath, key, value string) error {
	tag, ok := SettableKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	scalar := &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	if err := checkScalar(scalar); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config root must be a mapping")
	}

	node := doc.Content[0]
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child := lookup(node, part)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: part}, child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("config key %q is not a mapping", part)
		}
		node = child
	}
	last := parts[len(parts)-1]
	replaced := false
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == last {
			scalar.LineComment = node.Content[i+1].LineComment
			node.Content[i+1] = scalar
			replaced = true
			break
		}
	}
	if !replaced {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: last}, scalar)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		return err
	}
	log.Info(log.CatConfig, "Updated config", "path", configPath, "key", key)
	return nil
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func checkScalar(n *yaml.Node) error {
	var err error
	switch n.Tag {
	case "!!bool":
		var b bool
		err = n.Decode(&b)
	case "!!int":
		var i int
		err = n.Decode(&i)
	case "!!float":
		var f float64
		err = n.Decode(&f)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q", n.Value)
	}
	return nil
}

// checkTemplate makes sure the template parses and covers every settable key.
func checkTemplate(tmpl string) error {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(tmpl), &doc); err != nil {
		return fmt.Errorf("parsing config template: %w", err)
	}
	if len(doc.Content) == 0 {
		return fmt.Errorf("config template is empty")
	}
	for key := range SettableKeys {
		if key == "tracing.file_path" {
			continue // commented out: derived at runtime
		}
		node := doc.Content[0]
		for _, part := range strings.Split(key, ".") {
			if node = lookup(node, part); node == nil {
				return fmt.Errorf("config template is missing %q", key)
			}
		}
	}
	return nil
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".signup.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
