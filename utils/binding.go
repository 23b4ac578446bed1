package utils

import (
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the bookstore binding rules to gin's validator:
//
//	capitalized  starts with an upper-case letter, letters and spaces only
//	titlecase    first rune is upper-case
//	notfuture    a time.Time or YYYY-MM-DD date that is not after now
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("capitalized", func(fl validator.FieldLevel) bool {
		return capitalizedRegex.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("titlecase", func(fl validator.FieldLevel) bool {
		s := []rune(fl.Field().String())
		return len(s) > 0 && unicode.IsUpper(s[0])
	}); err != nil {
		return err
	}
	return v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		switch val := fl.Field().Interface().(type) {
		case time.Time:
			return !val.After(time.Now())
		case string:
			t, err := ParseDate(val)
			return err == nil && !t.After(time.Now())
		}
		return false
	})
}

// DateLayout is the format of dates sent by clients
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in the local time zone
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
