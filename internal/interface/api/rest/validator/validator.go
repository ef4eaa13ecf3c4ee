package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultSkip  = 0
	DefaultLimit = 100
	MaxLimit     = 1000
)

var ErrInvalidPagination = errors.New("invalid pagination parameters")

var jsonNamesOnce sync.Once

// UseJSONFieldNames makes gin's validator report fields by their json tag.
func UseJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// ValidatePagination parses the skip/limit query values, applying defaults for empty ones.
func ValidatePagination(skip, limit string) (int, int, error) {
	s, err := parseIntOr(skip, DefaultSkip)
	if err != nil {
		return 0, 0, err
	}
	l, err := parseIntOr(limit, DefaultLimit)
	if err != nil {
		return 0, 0, err
	}

	if s < 0 || l <= 0 || l > MaxLimit {
		return 0, 0, ErrInvalidPagination
	}

	return s, l, nil
}

func parseIntOr(v string, def int) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ErrInvalidPagination
	}
	return n, nil
}

// BindingErrors flattens gin binding failures into field -> message pairs.
// It returns nil when err is not a validation error.
func BindingErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	errs := make(map[string]string, len(ve))
	for _, fe := range ve {
		errs[fe.Field()] = message(fe)
	}

	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}
