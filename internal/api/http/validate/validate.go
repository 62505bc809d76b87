// Package validate checks the body, path params and query of a request
// against a declared schema before the handler runs.
//
// A schema is a Request[B, P, Q]: each part is a struct whose fields carry
// `validate` tags. Body fields are named by their `json` tag, path params by
// `param` and query values by `query`. Use None for an absent part.
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apiErrors "github.com/dtroode/taskkeeper-server/internal/apierrors"
	"github.com/dtroode/taskkeeper-server/internal/api/http/respond"
	"github.com/dtroode/taskkeeper-server/internal/logger"
)

// ErrUnsupportedField is returned when a param or query field has a kind the
// binder cannot fill.
var ErrUnsupportedField = errors.New("unsupported schema field")

// None marks a request part the schema does not declare.
type None struct{}

// Request is a parsed and validated request.
type Request[B, P, Q any] struct {
	Body   B
	Params P
	Query  Q
}

type requestKey[B, P, Q any] struct{}

// Validator wraps go-playground/validator with request-part binding.
type Validator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

// New creates a Validator. Field names in violations come from the json,
// param or query tag, in that order.
func New(logger *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "param", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: v, logger: logger}
}

// Middleware parses the request into Request[B, P, Q] and validates it. On
// violations it answers 400 and never calls next. Other failures are
// answered as internal errors.
func Middleware[B, P, Q any](v *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, err := Parse[B, P, Q](v, r)
			if err != nil {
				var apiErr *apiErrors.APIError
				if !errors.As(err, &apiErr) {
					v.logger.Error("Validator: failed to parse request",
						"path", r.URL.Path,
						"error", err.Error())
				}
				respond.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), requestKey[B, P, Q]{}, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request stored by Middleware with the same type
// parameters.
func FromContext[B, P, Q any](ctx context.Context) (Request[B, P, Q], bool) {
	req, ok := ctx.Value(requestKey[B, P, Q]{}).(Request[B, P, Q])
	return req, ok
}

// Parse binds and validates all three parts of r. Violations are returned as
// a single validation APIError listing body, params and query in that order.
func Parse[B, P, Q any](v *Validator, r *http.Request) (Request[B, P, Q], error) {
	var req Request[B, P, Q]
	var violations []apiErrors.FieldViolation

	if !isNone[B]() {
		if fv := decodeBody(r, &req.Body); fv != nil {
			violations = append(violations, *fv)
		} else {
			fvs, err := v.check("body", req.Body)
			if err != nil {
				return req, err
			}
			violations = append(violations, fvs...)
		}
	}

	if !isNone[P]() {
		if err := bind(&req.Params, "param", func(key string) (string, bool) {
			value := chi.URLParam(r, key)
			return value, value != ""
		}); err != nil {
			return req, err
		}
		fvs, err := v.check("params", req.Params)
		if err != nil {
			return req, err
		}
		violations = append(violations, fvs...)
	}

	if !isNone[Q]() {
		query := r.URL.Query()
		if err := bind(&req.Query, "query", func(key string) (string, bool) {
			if !query.Has(key) {
				return "", false
			}
			return query.Get(key), true
		}); err != nil {
			return req, err
		}
		fvs, err := v.check("query", req.Query)
		if err != nil {
			return req, err
		}
		violations = append(violations, fvs...)
	}

	if len(violations) > 0 {
		return req, apiErrors.NewErrValidation(violations)
	}

	return req, nil
}

func (v *Validator) check(part string, s any) ([]apiErrors.FieldViolation, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate %s: %w", part, err)
	}

	fvs := make([]apiErrors.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		fvs = append(fvs, apiErrors.FieldViolation{
			Field:   fieldPath(part, fe.Namespace()),
			Message: message(fe),
		})
	}

	return fvs, nil
}

// fieldPath replaces the struct type name at the head of a validator
// namespace with the request part.
func fieldPath(part, namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return part
	}
	return part + "." + rest
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func decodeBody(r *http.Request, dst any) *apiErrors.FieldViolation {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &apiErrors.FieldViolation{
			Field:   "body." + typeErr.Field,
			Message: "must be a " + jsonTypeName(typeErr.Type),
		}
	}

	return &apiErrors.FieldViolation{Field: "body", Message: "must be a valid JSON object"}
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// bind fills string and *string fields of the struct at dst from lookup,
// keyed by the field's tag.
func bind(dst any, tag string, lookup func(key string) (string, bool)) error {
	rv := reflect.ValueOf(dst).Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s part must be a struct, got %s", ErrUnsupportedField, tag, rv.Kind())
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		key := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if key == "" || key == "-" {
			continue
		}

		value, ok := lookup(key)
		if !ok {
			continue
		}

		fv := rv.Field(i)
		switch {
		case fv.Kind() == reflect.String:
			fv.SetString(value)
		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.String:
			fv.Set(reflect.ValueOf(&value))
		default:
			return fmt.Errorf("%w: %s.%s has kind %s", ErrUnsupportedField, tag, field.Name, fv.Kind())
		}
	}

	return nil
}

func isNone[T any]() bool {
	var zero T
	_, ok := any(zero).(None)
	return ok
}
