// Package inputval validates form drafts before they are sent to the
// admissions API.
//
// Rules are declared with go-playground/validator struct tags, and the
// human-readable field name comes from a `label` tag:
//
//	type hallInput struct {
//		Name     string `validate:"required,max=120" label:"Hall name"`
//		Capacity int    `validate:"gt=0" label:"Capacity"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//		renderWithError(res.First())
//	}
//
// Messages are written for end users ("Hall name is required."). Tags without
// a dedicated message fall back to the validator's English translations.
package inputval

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string // label (or Go field name when no label is set)
	Tag     string // validator tag that failed, e.g. "required"
	Message string // user-facing message
}

// Result collects the failures of one Validate call, in struct field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "" when valid.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Err returns the first failure as an *Error, or nil when valid.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	fe := r.Errors[0]
	return &Error{Field: fe.Field, Message: fe.Message}
}

// Error is a local, pre-network validation failure.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// UserMessage is the text shown next to the form.
func (e *Error) UserMessage() string { return e.Message }

// IsValidation reports whether err is (or wraps) a validation *Error.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func engine() (*validator.Validate, ut.Translator) {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		english := en.New()
		uni := ut.New(english, english)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, trans)

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			return fld.Name
		})

		_ = validate.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsValidHTTPURL(fl.Field().String())
		})
		_ = validate.RegisterValidation("jambreg", func(fl validator.FieldLevel) bool {
			return IsValidJambReg(fl.Field().String())
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		})
		_ = validate.RegisterValidation("olevelgrade", func(fl validator.FieldLevel) bool {
			return IsValidGrade(fl.Field().String())
		})
	})
	return validate, trans
}

// Validate runs the struct-tag rules on v (a struct or pointer to struct).
func Validate(v any) *Result {
	val, tr := engine()
	res := &Result{}

	err := val.Struct(v)
	if err == nil {
		return res
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		res.Errors = append(res.Errors, FieldError{Message: "Invalid input."})
		return res
	}

	for _, fe := range ves {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe, tr),
		})
	}
	return res
}

func message(fe validator.FieldError, tr ut.Translator) string {
	label := fe.Field()
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters.", label, param)
		}
		return fmt.Sprintf("%s must be at most %s.", label, param)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters.", label, param)
		}
		return fmt.Sprintf("%s must be at least %s.", label, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, param)
	case "gte":
		return fmt.Sprintf("%s must be %s or later.", label, param)
	case "lte":
		return fmt.Sprintf("%s must be %s or earlier.", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(param, " ", ", "))
	case "eqfield":
		return label + " does not match."
	case "datetime":
		return label + " must be a date in the form YYYY-MM-DD."
	case "httpurl":
		return label + " must be an http(s) URL."
	case "jambreg":
		return label + " must be 8 digits followed by 2 letters (e.g. 12345678AB)."
	case "phone":
		return label + " must be a valid phone number."
	case "olevelgrade":
		return label + " must be a valid grade (A1 to F9)."
	}

	if tr != nil {
		if msg := fe.Translate(tr); msg != "" {
			return msg
		}
	}
	return label + " is invalid."
}

var (
	emailLocalRe  = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*$`)
	emailDomainRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)*$`)
	jambRegRe     = regexp.MustCompile(`^[0-9]{8}[A-Za-z]{2}$`)
	phoneRe       = regexp.MustCompile(`^\+?[0-9]{10,14}$`)
	gradeRe       = regexp.MustCompile(`^(A1|B2|B3|C4|C5|C6|D7|E8|F9)$`)
)

// IsValidEmail is a strict check on a bare address (no display name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return emailLocalRe.MatchString(s[:at]) && emailDomainRe.MatchString(s[at+1:])
}

// IsValidHTTPURL reports whether s is an absolute http or https URL with a host.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidJambReg reports whether s looks like a UTME registration number.
func IsValidJambReg(s string) bool {
	return jambRegRe.MatchString(strings.TrimSpace(s))
}

// IsValidPhone accepts 10 to 14 digits with an optional leading "+".
// Spaces and dashes are ignored.
func IsValidPhone(s string) bool {
	s = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	return phoneRe.MatchString(s)
}

// IsValidGrade reports whether s is a WAEC/NECO grade.
func IsValidGrade(s string) bool {
	return gradeRe.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}
