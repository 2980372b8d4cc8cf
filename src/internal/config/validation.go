package config

import (
	"fmt"
	"net"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// maxIfNameLen is IFNAMSIZ without the trailing NUL.
const maxIfNameLen = 15

// ValidationError is one failed check, located by routes file entry and key.
type ValidationError struct {
	ItemName  string // e.g. "protected_routes.3"; empty for settings
	FieldPath string // toml or yaml key, e.g. "dst_len"
	Message   string
}

// ValidationErrors collects every failed check of a settings file or entry.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "validation failed with %d error(s):\n", len(ve))
	for i, e := range ve {
		if e.ItemName != "" {
			fmt.Fprintf(&sb, "  %d. [%s] %s: %s\n", i+1, e.ItemName, e.FieldPath, e.Message)
		} else {
			fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, e.FieldPath, e.Message)
		}
	}
	return sb.String()
}

var tagMessages = map[string]string{
	"required":          "field is required",
	"min":               "must be >= %s",
	"max":               "must be <= %s",
	"eq":                "must be %s",
	"oneof":             "must be one of: %s",
	"ip":                "must be a valid IP address",
	"hostport_or_empty": "must be in format 'host:port' or empty",
	"ifname":            "must be an interface name or index (at most 15 characters, no '/' or spaces)",
}

func validationMessage(e validator.FieldError) string {
	msg, ok := tagMessages[e.Tag()]
	if !ok {
		return "validation failed: " + e.Tag()
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, e.Param())
	}
	return msg
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	for tag, fn := range map[string]validator.Func{
		"hostport_or_empty": isHostPortOrEmpty,
		"ifname":            isIfName,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	// Errors name fields by their toml or yaml key.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("toml")
		if tag == "" {
			tag = fld.Tag.Get("yaml")
		}
		if name := strings.SplitN(tag, ",", 2)[0]; name != "-" {
			return name
		}
		return ""
	})
	return v
}

func isHostPortOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, err := net.SplitHostPort(value)
	return err == nil
}

// isIfName accepts what the kernel accepts as a link name, which covers
// numeric indexes too.
func isIfName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || len(name) > maxIfNameLen || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsFunc(name, func(r rune) bool {
		return r == '/' || r == ':' || unicode.IsSpace(r)
	})
}
