package template

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	keyNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	sectionPattern = regexp.MustCompile(`^#+\s*Section:\s*(.+?)\s*$`)
)

// Load reads and parses the template at path. It returns a NotFoundError
// when the path does not exist and a ParseError carrying every problem
// found when the content is malformed.
func Load(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to open template %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse parses template content from r. The name is used in error
// messages and as the template's Source.
func Parse(r io.Reader, name string) (*Template, error) {
	var (
		keys    []KeySpec
		issues  []Issue
		seen    = make(map[string]int)
		section string
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if m := sectionPattern.FindStringSubmatch(line); m != nil {
				section = m[1]
			}
			continue
		}

		spec, specIssues := parseDeclaration(line, lineNo)
		issues = append(issues, specIssues...)
		if spec == nil {
			continue
		}

		if prev, dup := seen[spec.Name]; dup {
			issues = append(issues, Issue{
				Line:    lineNo,
				Message: fmt.Sprintf("duplicate key %s (first declared on line %d)", spec.Name, prev),
			})
			continue
		}
		seen[spec.Name] = lineNo

		spec.Section = section
		keys = append(keys, *spec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}

	if len(issues) > 0 {
		return nil, &ParseError{Path: name, Issues: issues}
	}

	if err := validateSpecs(keys); err != nil {
		return nil, fmt.Errorf("template %s failed validation: %w", name, err)
	}

	index := make(map[string]int, len(keys))
	for i := range keys {
		index[keys[i].Name] = i
	}

	return &Template{Source: name, Keys: keys, index: index}, nil
}

// parseDeclaration parses a single KEY=VALUE [# description] line. It
// returns nil and the collected issues when the line cannot yield a
// usable declaration.
func parseDeclaration(line string, lineNo int) (*KeySpec, []Issue) {
	var issues []Issue

	eq := strings.Index(line, "=")
	if eq < 0 {
		return nil, []Issue{{Line: lineNo, Message: fmt.Sprintf("missing '=' delimiter in %q", line)}}
	}

	name := strings.TrimSpace(line[:eq])
	if !keyNamePattern.MatchString(name) {
		return nil, []Issue{{Line: lineNo, Message: fmt.Sprintf("invalid key name %q", name)}}
	}

	value, comment := splitInlineComment(line[eq+1:])
	value = strings.TrimSpace(value)
	if unquoted, ok := unquote(value); ok {
		value = unquoted
	}

	spec := &KeySpec{
		Name:       name,
		Default:    value,
		HasDefault: value != "",
		Type:       TypeString,
		Line:       lineNo,
	}

	tags, description := splitTags(comment)
	spec.Description = description

	typed := false
	for _, tag := range tags {
		switch {
		case tag == "required":
			spec.Required = true
		case tag == "integer" || tag == "boolean" || tag == "url":
			if typed {
				issues = append(issues, Issue{Line: lineNo, Message: fmt.Sprintf("key %s declares more than one type", name)})
				continue
			}
			spec.Type = Type(tag)
			typed = true
		case strings.HasPrefix(tag, "enum:"):
			if typed {
				issues = append(issues, Issue{Line: lineNo, Message: fmt.Sprintf("key %s declares more than one type", name)})
				continue
			}
			values := splitEnum(strings.TrimPrefix(tag, "enum:"))
			if len(values) == 0 {
				issues = append(issues, Issue{Line: lineNo, Message: fmt.Sprintf("key %s has an empty enum tag", name)})
				continue
			}
			spec.Type = TypeEnum
			spec.Enum = values
			typed = true
		default:
			issues = append(issues, Issue{Line: lineNo, Message: fmt.Sprintf("key %s has unknown tag [%s]", name, tag)})
		}
	}

	// Only check the default against the type once the tags parsed
	// cleanly; a half-resolved type would cascade into bogus issues.
	if spec.HasDefault && len(issues) == 0 {
		if err := spec.CheckValue(spec.Default); err != nil {
			issues = append(issues, Issue{
				Line:    lineNo,
				Message: fmt.Sprintf("default for %s violates its own constraint: %v", name, err),
			})
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return spec, nil
}

// splitInlineComment splits a declaration's right-hand side into the
// value and the trailing comment. A comment starts at a '#' preceded by
// whitespace; a '#' embedded in a value (Git refs, URL fragments) or
// inside a double-quoted value does not start one.
func splitInlineComment(s string) (value, comment string) {
	inQuote := false
	prevSpace := true
	for i, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '#' && !inQuote && prevSpace:
			return s[:i], strings.TrimSpace(s[i+1:])
		}
		prevSpace = r == ' ' || r == '\t'
	}
	return s, ""
}

// splitTags peels the bracketed tag prefix off a description.
func splitTags(comment string) (tags []string, description string) {
	rest := strings.TrimSpace(comment)
	for strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			break
		}
		tags = append(tags, strings.TrimSpace(rest[1:end]))
		rest = strings.TrimSpace(rest[end+1:])
	}
	return tags, rest
}

// splitEnum splits a comma-separated enum value list, dropping empties.
func splitEnum(s string) []string {
	var values []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// unquote strips a surrounding double-quote pair, reporting whether the
// value was quoted.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1], true
	}
	return s, false
}
