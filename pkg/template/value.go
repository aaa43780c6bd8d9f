package template

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CheckValue reports whether v satisfies the key's type constraint.
// Parsing is strict and locale-independent: integers are base-10 only,
// booleans are exactly "true" or "false", and URLs need a scheme and a
// host but are never dialed.
func (k KeySpec) CheckValue(v string) error {
	switch k.Type {
	case TypeString:
		return nil

	case TypeInteger:
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("%q is not a base-10 integer", v)
		}
		return nil

	case TypeBoolean:
		if v != "true" && v != "false" {
			return fmt.Errorf("%q is not a boolean (expected true or false)", v)
		}
		return nil

	case TypeURL:
		u, err := url.Parse(v)
		if err != nil {
			return fmt.Errorf("%q is not a valid URL: %v", v, err)
		}
		if u.Scheme == "" {
			return fmt.Errorf("URL %q is missing a scheme", v)
		}
		if u.Host == "" {
			return fmt.Errorf("URL %q is missing a host", v)
		}
		return nil

	case TypeEnum:
		for _, allowed := range k.Enum {
			if v == allowed {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of [%s]", v, strings.Join(k.Enum, ", "))

	default:
		return fmt.Errorf("unknown type constraint %q", k.Type)
	}
}
