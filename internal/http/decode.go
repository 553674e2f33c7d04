package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

var validate = newValidator()

// newValidator reports field names by their JSON tag so failures read as
// JSON paths.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		default:
			return name
		}
	})

	return v
}

// decode fills out from a 2xx body. An empty body leaves out untouched.
func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))

	err := decoder.Decode(out)
	if err != nil {
		return decodeError(err, decoder.InputOffset())
	}

	return validateRequired(out)
}

func decodeError(err error, offset int64) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &clouddns.DecodeError{Path: typeErr.Field, Offset: typeErr.Offset, Cause: err}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &clouddns.DecodeError{Offset: syntaxErr.Offset, Cause: err}
	}

	return &clouddns.DecodeError{Offset: offset, Cause: err}
}

// validateRequired checks `validate` tags on struct targets and reports the
// first failing field by its JSON path, e.g. rrsets[0].name.
func validateRequired(out any) error {
	value := reflect.ValueOf(out)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}

		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		return nil
	}

	err := validate.Struct(value.Interface())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &clouddns.DecodeError{Cause: err}
	}

	path := fieldPath(fieldErrs[0].Namespace())

	return &clouddns.DecodeError{
		Path:  path,
		Cause: fmt.Errorf("%w: %s (%s)", clouddns.ErrMissingField, path, fieldErrs[0].Tag()),
	}
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return path
}
