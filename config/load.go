package config

import (
	"fmt"
	"reflect"
)

type Options struct {
	files     []string
	envPrefix string
}

type Option func(*Options)

// WithFiles adds configuration files, applied in order. Missing files are
// skipped.
func WithFiles(filenames ...string) Option {
	return func(o *Options) {
		o.files = append(o.files, filenames...)
	}
}

// WithEnv enables environment overrides for variables named
// PREFIX_FIELD, with nested structs joined by underscores.
func WithEnv(prefix string) Option {
	return func(o *Options) {
		o.envPrefix = prefix
	}
}

// Load fills config, which must be a non-nil struct pointer. Sources are
// applied in order: default tags, Default methods, files, environment.
func Load(config any, options ...Option) error {
	opts := &Options{}
	for _, option := range options {
		option(opts)
	}

	configElem, err := validateConfigPointer(config)
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	if err := applyDefaultTagsRecursive(configElem); err != nil {
		return fmt.Errorf("failed to apply default tags: %w", err)
	}

	callDefaultMethodsRecursive(configElem)

	for _, filename := range opts.files {
		if err := loadFromFile(config, filename); err != nil {
			return fmt.Errorf("failed to load file %s: %w", filename, err)
		}
	}

	if opts.envPrefix != "" {
		if err := loadFromEnvRecursive(configElem, opts.envPrefix); err != nil {
			return fmt.Errorf("failed to load from environment: %w", err)
		}
	}

	return nil
}

func validateConfigPointer(config any) (reflect.Value, error) {
	configValue := reflect.ValueOf(config)
	if configValue.Kind() != reflect.Ptr || configValue.IsNil() {
		return reflect.Value{}, fmt.Errorf("config must be a non-nil pointer")
	}

	configElem := configValue.Elem()
	if configElem.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("config must point to a struct, got %s", configElem.Kind())
	}

	return configElem, nil
}
