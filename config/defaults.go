package config

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaultTagsRecursive(v reflect.Value) error {
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if err := applyDefaultTag(field, fieldType); err != nil {
			return fmt.Errorf("failed to apply default tag to field %s: %w", fieldType.Name, err)
		}

		if err := applyDefaultTagsRecursive(field); err != nil {
			return err
		}
	}

	return nil
}

// callDefaultMethodsRecursive calls Default on every addressable struct that
// has one, outermost first.
func callDefaultMethodsRecursive(v reflect.Value) {
	if v.Kind() != reflect.Struct || !v.CanAddr() {
		return
	}

	if method := v.Addr().MethodByName("Default"); method.IsValid() && method.Type().NumIn() == 0 {
		method.Call(nil)
	}

	for i := 0; i < v.NumField(); i++ {
		if field := v.Field(i); field.CanSet() {
			callDefaultMethodsRecursive(field)
		}
	}
}

func applyDefaultTag(field reflect.Value, fieldType reflect.StructField) error {
	defaultValue, ok := fieldType.Tag.Lookup("default")
	if !ok || !field.IsZero() {
		return nil
	}

	return setValueFromString(field, defaultValue)
}

// setValueFromString parses value into a scalar or duration field.
func setValueFromString(field reflect.Value, value string) error {
	if field.Type() == durationType {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		field.SetInt(int64(duration))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Bool:
		val, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		field.SetBool(val)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		if field.OverflowInt(val) {
			return fmt.Errorf("integer %q overflows %s", value, field.Type())
		}
		field.SetInt(val)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", value)
		}
		if field.OverflowUint(val) {
			return fmt.Errorf("unsigned integer %q overflows %s", value, field.Type())
		}
		field.SetUint(val)

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q", value)
		}
		field.SetFloat(val)

	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}

	return nil
}
