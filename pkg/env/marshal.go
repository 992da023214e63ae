package env

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrNotStructPointer = errors.New("env: expected a pointer to a struct")

// Values collects the non-zero env-tagged fields of the struct c points to.
func Values(c any) (map[string]string, error) {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, ErrNotStructPointer
	}
	v = v.Elem()
	t := v.Type()

	values := make(map[string]string)
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		// "KEY,required,notEmpty" or "KEY"
		key, _, _ := strings.Cut(field.Tag.Get("env"), ",")
		if key == "" {
			continue
		}

		val := v.Field(i)
		if val.IsZero() {
			continue
		}
		values[key] = formatValue(val)
	}
	return values, nil
}

// Marshal renders vars as sorted, quoted KEY="value" lines readable by godotenv.
func Marshal(vars map[string]string) (string, error) {
	if len(vars) == 0 {
		return "", nil
	}
	content, err := godotenv.Marshal(vars)
	if err != nil {
		return "", err
	}
	return content + "\n", nil
}

// MarshalEnv renders the env-tagged fields of the struct c points to as .env content.
func MarshalEnv(c any) (string, error) {
	values, err := Values(c)
	if err != nil {
		return "", err
	}
	return Marshal(values)
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
