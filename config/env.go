package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode"
)

func camelToSnake(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i < len(runes)-1 && unicode.IsLower(runes[i+1])

			if !prevUpper || nextLower {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// envName returns the name segment of a field: its yaml tag, otherwise its
// Go name in snake case.
func envName(fieldType reflect.StructField) string {
	if tag := fieldType.Tag.Get("yaml"); tag != "" && tag != "-" {
		return strings.Split(tag, ",")[0]
	}
	return camelToSnake(fieldType.Name)
}

func loadFromEnvRecursive(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		envKey := strings.ToUpper(prefix + "_" + envName(fieldType))

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := loadFromEnvRecursive(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue, ok := os.LookupEnv(envKey)
		if !ok || envValue == "" {
			continue
		}

		if err := setFieldFromEnv(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s from %s: %w", fieldType.Name, envKey, err)
		}
	}

	return nil
}

// setFieldFromEnv handles scalars, durations and comma separated slices.
func setFieldFromEnv(field reflect.Value, envValue string) error {
	if field.Kind() != reflect.Slice {
		return setValueFromString(field, envValue)
	}

	parts := strings.Split(envValue, ",")
	slice := reflect.MakeSlice(field.Type(), 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		elem := reflect.New(field.Type().Elem()).Elem()
		if err := setValueFromString(elem, part); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem)
	}

	field.Set(slice)
	return nil
}
