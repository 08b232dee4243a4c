package validators

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	validate  = validator.New()
	phoneJunk = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	phoneRe   = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsEmail(email string) bool {
	return validate.Var(email, "required,email,max=254") == nil
}

// NormalizePhone drops spaces, dashes and parentheses.
func NormalizePhone(phone string) string {
	return phoneJunk.Replace(strings.TrimSpace(phone))
}

func IsPhone(phone string) bool {
	return phoneRe.MatchString(NormalizePhone(phone))
}

const MinPasswordLength = 8

func IsPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= MinPasswordLength && n <= 128
}
