package utils

import (
	"encoding"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// StructToCsvHeader takes a struct type and returns a slice of strings representing the CSV header.
// It uses the `csv` tag on struct fields to determine the header name.
// If a field doesn't have a `csv` tag, the field name is used; a tag of "-" skips the field.
func StructToCsvHeader(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var headers []string
	for i := 0; i < t.NumField(); i++ {
		if name, ok := csvName(t.Field(i)); ok {
			headers = append(headers, name)
		}
	}
	return headers
}

// WriteToCsvFile writes the given headers and data to a CSV file at the specified filePath,
// creating parent directories as needed.
// Values implementing encoding.TextMarshaler are written with MarshalText;
// other slices are joined with a semicolon (;).
func WriteToCsvFile[T any](filePath string, headers []string, data []T) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Write the headers
	if err := writer.Write(headers); err != nil {
		return err
	}

	column := make(map[string]int, len(headers))
	for i, h := range headers {
		column[h] = i
	}

	// Write the data rows
	for _, item := range data {
		v := reflect.ValueOf(item)

		// If item is a pointer, get the value it points to
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return fmt.Errorf("data must be a slice of structs")
		}

		row := make([]string, len(headers))
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			name, ok := csvName(t.Field(i))
			if !ok {
				continue
			}
			idx, ok := column[name]
			if !ok {
				continue // Skip fields not in the headers
			}
			s, err := cellValue(v.Field(i))
			if err != nil {
				return fmt.Errorf("column %s: %w", name, err)
			}
			row[idx] = s
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func csvName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("csv")
	switch tag {
	case "-":
		return "", false
	case "":
		return field.Name, true
	default:
		return tag, true
	}
}

// cellValue converts a field value to its CSV text.
func cellValue(fieldValue reflect.Value) (string, error) {
	if m, ok := fieldValue.Interface().(encoding.TextMarshaler); ok {
		text, err := m.MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	}

	if fieldValue.Kind() == reflect.Slice {
		// Join slice elements with semicolon
		sliceValues := make([]string, fieldValue.Len())
		for j := 0; j < fieldValue.Len(); j++ {
			sliceValues[j] = fmt.Sprintf("%v", fieldValue.Index(j).Interface())
		}
		return strings.Join(sliceValues, ";"), nil
	}
	return fmt.Sprintf("%v", fieldValue.Interface()), nil
}
