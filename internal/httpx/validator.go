package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("notblank", validateNotBlank)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateStruct runs the struct's validate tags and reports one detail per failing field.
func ValidateStruct(s interface{}) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "body", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = "field required"
		case "notblank":
			message = "must not be blank"
		case "min", "gte":
			message = fmt.Sprintf("must be greater than or equal to %s", param)
		case "max", "lte":
			message = fmt.Sprintf("must be less than or equal to %s", param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, ErrorDetail{
			Field:   field,
			Message: message,
		})
	}
	return details
}

// DecodeJSON decodes the request body into dst and validates it.
// A non-empty result means the request must be rejected with 422.
func DecodeJSON(r *http.Request, dst interface{}) []ErrorDetail {
	if r.Body == nil {
		return []ErrorDetail{{Field: "body", Message: "field required"}}
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return []ErrorDetail{{Field: "body", Message: "field required"}}
		}
		return []ErrorDetail{{Field: "body", Message: "invalid JSON body"}}
	}
	return ValidateStruct(dst)
}

// PathInt64 parses a numeric path parameter.
func PathInt64(r *http.Request, name string) (int64, []ErrorDetail) {
	raw := r.PathValue(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, []ErrorDetail{{Field: name, Message: "value is not a valid integer"}}
	}
	return v, nil
}

// QueryInt parses an optional integer query parameter. A missing parameter yields nil.
func QueryInt(r *http.Request, name string) (*int, []ErrorDetail) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, []ErrorDetail{{Field: name, Message: "value is not a valid integer"}}
	}
	return &v, nil
}

// QueryString returns an optional query parameter. An empty or missing parameter yields nil.
func QueryString(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}
