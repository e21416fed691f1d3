package dto

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"seguimientos/backend/pkg/academicyear"
)

// RegisterValidators installs the custom binding tags on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

// RegisterOn installs the custom tags on v and makes it report fields by
// their json/form name.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)
	return v.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		return academicyear.Validate(fl.Field().String()) == nil
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// ValidationMessages flattens a binding error into field -> message. Errors
// that are not validator failures (malformed JSON, wrong types) come back
// under "body".
func ValidationMessages(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = describe(fe)
	}
	return out
}

// QueryValidationMessages is ValidationMessages for query strings. A value
// that failed to parse is reported under the parameter that carried it, or
// under "query" when it cannot be traced.
func QueryValidationMessages(err error, query url.Values) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ValidationMessages(err)
	}

	key := "query"
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		if k := paramWithValue(query, numErr.Num); k != "" {
			key = k
		}
	}
	msg := "invalid value"
	if numErr != nil {
		msg = fmt.Sprintf("invalid value %q", numErr.Num)
	}
	return map[string]string{key: msg}
}

func paramWithValue(query url.Values, value string) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range query[k] {
			if v == value {
				return k
			}
		}
	}
	return ""
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "academic_year":
		return academicyear.ErrFormat.Error()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
