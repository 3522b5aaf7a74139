package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// applyEnv walks through struct fields and overrides them with environment
// variables. A tag may list several names ("DB_PASSWORD,PGPASSWORD"); the
// first one set wins. It returns the names that were applied.
func applyEnv(s interface{}) ([]string, error) {
	val := reflect.ValueOf(s)

	// If pointer, get the underlying element
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	// Only process structs
	if val.Kind() != reflect.Struct {
		return nil, nil
	}

	typ := val.Type()
	var applied []string

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		// Nested sections are walked recursively
		if field.Kind() == reflect.Struct {
			nested, err := applyEnv(field.Addr().Interface())
			if err != nil {
				return nil, err
			}
			applied = append(applied, nested...)
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		name, envValue, ok := lookupFirst(strings.Split(envTag, ","))
		if !ok {
			continue
		}

		if err := setFieldFromEnv(field, envValue); err != nil {
			return nil, fmt.Errorf("failed to set field %s from env var %s: %w", fieldType.Name, name, err)
		}
		applied = append(applied, name)
	}

	return applied, nil
}

func lookupFirst(names []string) (name, value string, ok bool) {
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if v, exists := os.LookupEnv(n); exists {
			return n, v, true
		}
	}
	return "", "", false
}

// setFieldFromEnv sets a field value from an environment variable string
func setFieldFromEnv(field reflect.Value, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(strings.TrimSpace(value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration format: %w", err)
			}
			field.Set(reflect.ValueOf(duration))
		} else {
			intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer format: %w", err)
			}
			field.SetInt(intValue)
		}

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid boolean format: %w", err)
		}
		field.SetBool(boolValue)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
