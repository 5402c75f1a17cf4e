package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keySchemaVersion = "schema_version"
	keyOutput        = "output"
	keyLogging       = "logging"
	keyTables        = "tables"
	keyDefaults      = "defaults"
	keyBatch         = "batch"
	keyServer        = "server"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keySchemaVersion: true,
	keyOutput:        true,
	keyLogging:       true,
	keyTables:        true,
	keyDefaults:      true,
	keyBatch:         true,
	keyServer:        true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. A section present in the overlay is decoded over the
// target's section, so fields the overlay omits keep their current value.
// Sections absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes one overlay section over the matching field of
// target. The field is only replaced when decoding succeeds.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keySchemaVersion:
		return replace(node, &target.SchemaVersion)
	case keyOutput:
		return replace(node, &target.Output)
	case keyLogging:
		return replace(node, &target.Logging)
	case keyTables:
		return replace(node, &target.Tables)
	case keyDefaults:
		return replace(node, &target.Defaults)
	case keyBatch:
		return replace(node, &target.Batch)
	case keyServer:
		return replace(node, &target.Server)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}

func replace[T any](node *yaml.Node, dst *T) error {
	v := *dst
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}
