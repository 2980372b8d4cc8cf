package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/zelus-routing/zelus/src/internal/errors"
)

const (
	templateStartTag = "{{"
	templateEndTag   = "}}"
)

// RenderTemplate substitutes every {{ path }} tag in text with the value found
// at the dotted path in data, e.g. {{ interfaces.eth0.addresses.0 }}.
// Maps are indexed by key and slices by position. An undefined path is an error.
func RenderTemplate(text string, data map[string]interface{}) (string, error) {
	out, err := fasttemplate.ExecuteFuncStringWithErr(text, templateStartTag, templateEndTag,
		func(w io.Writer, tag string) (int, error) {
			value, err := lookupPath(data, strings.TrimSpace(tag))
			if err != nil {
				return 0, err
			}
			return io.WriteString(w, value)
		})
	if err != nil {
		return "", errors.NewTemplateError("failed to render routes file", err)
	}
	return out, nil
}

func lookupPath(data map[string]interface{}, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty template variable")
	}

	var current interface{} = data
	for _, key := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			next, ok := node[key]
			if !ok {
				return "", fmt.Errorf("undefined template variable %q", path)
			}
			current = next
		case []interface{}:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return "", fmt.Errorf("undefined template variable %q", path)
			}
			current = node[i]
		default:
			return "", fmt.Errorf("undefined template variable %q", path)
		}
	}

	switch v := current.(type) {
	case map[string]interface{}, []interface{}:
		return "", fmt.Errorf("template variable %q is not a scalar", path)
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}
