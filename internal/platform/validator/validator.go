// Package validator holds input validators for route parameters and
// request structs. Plain predicates cover single values; Struct runs
// go-playground/validator with sleuth's custom tags registered.
package validator

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.][A-Za-z0-9_.\-]{0,99}$`)
	slugRegex     = regexp.MustCompile(`^[A-Za-z0-9%][A-Za-z0-9_.%\-]{0,199}$`)
	unsafeName    = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
)

// IsUsername reports whether s looks like a platform handle. A leading
// dash is rejected so the value cannot be parsed as a CLI flag.
func IsUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// IsSlug reports whether s is a LinkedIn profile or company slug.
func IsSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// SanitizeFilename reduces an uploaded filename to a safe base name:
// path components are dropped, spaces become underscores and anything
// outside [A-Za-z0-9_.-] is removed. Leading dots are stripped.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeName.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" || name == "." {
		return ""
	}
	return name
}

// IsFilename reports whether name is already in sanitized form.
func IsFilename(name string) bool {
	return name != "" && SanitizeFilename(name) == name
}

// IsURL reports whether s is an absolute http(s) URL.
func IsURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// MaxLength reports whether len(s) <= max.
func MaxLength(s string, max int) bool { return len(s) <= max }

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

// Engine returns the shared go-playground validator with the "username",
// "slug" and "filename" tags registered.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return IsUsername(fl.Field().String())
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return IsSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("filename", func(fl validator.FieldLevel) bool {
			return IsFilename(fl.Field().String())
		})
		engine = v
	})
	return engine
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return Engine().Struct(s)
}

// FirstError renders the first field error of err as "field: tag".
// Non-validation errors are returned as their message.
func FirstError(err error) string {
	if err == nil {
		return ""
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return strings.ToLower(fe.Field()) + ": failed " + fe.Tag() + " validation"
	}
	return err.Error()
}
