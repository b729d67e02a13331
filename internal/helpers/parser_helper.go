package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func emailValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ParseID parses a positive integer identifier such as a path parameter.
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(n), nil
}

// NormalizeEmail trims and lower-cases an address. Uniqueness and lookups
// operate on this form only.
func NormalizeEmail(email string) string {
	// A Caser is stateful, so one is built per call.
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

// ValidEmail reports whether email is a syntactically valid address.
func ValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, ";") {
		return false
	}
	return emailValidator().Var(email, "required,email") == nil
}
