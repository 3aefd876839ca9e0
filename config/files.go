package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// loadFromFile decodes filename over config, rejecting unknown keys.
func loadFromFile(config any, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		return unmarshalYAML(data, config)
	case ".json":
		return unmarshalJSON(data, config)
	case ".toml":
		return unmarshalTOML(data, config)
	default:
		return fmt.Errorf("unsupported file extension %s", ext)
	}
}

func unmarshalYAML(data []byte, config any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func unmarshalTOML(data []byte, config any) error {
	meta, err := toml.Decode(string(data), config)
	if err != nil {
		return err
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	return nil
}

// unmarshalJSON accepts durations written as strings ("250ms") by
// converting them to nanoseconds before the strict decode.
func unmarshalJSON(data []byte, config any) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := processDurationFields(raw, reflect.ValueOf(config).Elem()); err != nil {
		return err
	}

	processed, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal processed data: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(processed))
	dec.DisallowUnknownFields()
	return dec.Decode(config)
}

func processDurationFields(data map[string]any, configValue reflect.Value) error {
	if configValue.Kind() != reflect.Struct {
		return nil
	}

	configType := configValue.Type()
	for i := 0; i < configValue.NumField(); i++ {
		field := configValue.Field(i)
		fieldType := configType.Field(i)

		if !fieldType.IsExported() {
			continue
		}

		name := jsonFieldName(fieldType)
		fieldData, exists := data[name]
		if !exists {
			continue
		}

		switch {
		case field.Type() == durationType:
			if strVal, ok := fieldData.(string); ok {
				duration, err := time.ParseDuration(strVal)
				if err != nil {
					return fmt.Errorf("invalid duration value %q for field %s: %w", strVal, fieldType.Name, err)
				}
				data[name] = int64(duration)
			}

		case field.Kind() == reflect.Struct:
			if nested, ok := fieldData.(map[string]any); ok {
				if err := processDurationFields(nested, field); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func jsonFieldName(fieldType reflect.StructField) string {
	if tag := fieldType.Tag.Get("json"); tag != "" && tag != "-" {
		return strings.Split(tag, ",")[0]
	}
	return fieldType.Name
}
