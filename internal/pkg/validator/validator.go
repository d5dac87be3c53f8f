package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once

	enums   = map[string]map[string]bool{}
	enumsMu sync.RWMutex
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json names, not Go field names
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// RegisterEnum adds a custom tag that accepts exactly the given string values.
// Domain packages call it from init for their enum types.
func RegisterEnum(tag string, values ...string) {
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}

	enumsMu.Lock()
	enums[tag] = allowed
	enumsMu.Unlock()

	_ = instance().RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		enumsMu.RLock()
		defer enumsMu.RUnlock()
		return enums[tag][fl.Field().String()]
	})
}

// Validate returns nil when v is valid, otherwise a json-field -> message map.
func Validate(v interface{}) map[string]string {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "uri":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid id"
	}

	enumsMu.RLock()
	allowed, ok := enums[fe.Tag()]
	enumsMu.RUnlock()
	if ok {
		values := make([]string, 0, len(allowed))
		for v := range allowed {
			values = append(values, v)
		}
		sort.Strings(values)
		return "must be one of: " + strings.Join(values, ", ")
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
