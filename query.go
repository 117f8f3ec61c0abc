package glik

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/zoobzio/sentinel"
)

// encodeQuery converts a filter struct into query parameters using sentinel
// field metadata. The json tag names each parameter. Nil pointers are always
// omitted; zero values are omitted when the tag carries omitempty.
func encodeQuery[T any](filters T) url.Values {
	metadata := sentinel.Inspect[T]()
	rv := reflect.ValueOf(filters)

	values := make(url.Values)
	for _, field := range metadata.Fields {
		name := getJSONFieldName(field)
		if name == "-" {
			continue // Skip fields with json:"-"
		}

		fv := rv.FieldByName(field.Name)
		if !fv.IsValid() {
			continue
		}
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		} else if hasOmitempty(field) && fv.IsZero() {
			continue
		}

		values.Set(name, formatQueryValue(fv))
	}
	return values
}

// getJSONFieldName extracts the JSON field name from metadata.
func getJSONFieldName(field sentinel.FieldMetadata) string {
	if jsonTag, ok := field.Tags["json"]; ok {
		// Handle "name,omitempty" format
		parts := strings.Split(jsonTag, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0]
		}
	}

	// Default to lowercase field name
	return strings.ToLower(field.Name[:1]) + field.Name[1:]
}

// hasOmitempty checks if the json tag contains omitempty.
func hasOmitempty(field sentinel.FieldMetadata) bool {
	if jsonTag, ok := field.Tags["json"]; ok {
		return strings.Contains(jsonTag, "omitempty")
	}
	return false
}

// formatQueryValue renders scalars the way the API parses them; booleans are
// lowercase.
func formatQueryValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(v.Interface())
	}
}
