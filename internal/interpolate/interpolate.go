// Package interpolate renders message templates by flat substitution of
// {name} placeholders. Templates are data: nothing in them is evaluated.
package interpolate

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{"
	endTag   = "}"
)

var ErrMissingPlaceholder = errors.New("missing placeholder value")

// MissingPlaceholderError names the placeholder that had no value.
type MissingPlaceholderError struct {
	Name string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("missing placeholder value: {%s}", e.Name)
}

func (e *MissingPlaceholderError) Unwrap() error { return ErrMissingPlaceholder }

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// splitTag finds the placeholder in a raw chunk between "{" and the next "}".
// The innermost "{" opens the name, so "{x {joke" yields prefix "x " and name "joke".
func splitTag(tag string) (prefix, name string, ok bool) {
	if nameRe.MatchString(tag) {
		return "", tag, true
	}
	i := strings.LastIndex(tag, startTag)
	if i < 0 || !nameRe.MatchString(tag[i+1:]) {
		return "", "", false
	}
	return tag[:i], tag[i+1:], true
}

// Render replaces every {name} in tpl with values[name]. Values are written
// verbatim and never rescanned. Braces that do not enclose a valid name are
// copied as-is.
func Render(tpl string, values map[string]string) (string, error) {
	return fasttemplate.ExecuteFuncStringWithErr(tpl, startTag, endTag, func(w io.Writer, tag string) (int, error) {
		prefix, name, ok := splitTag(tag)
		if !ok {
			return io.WriteString(w, startTag+tag+endTag)
		}
		v, found := values[name]
		if !found {
			return 0, &MissingPlaceholderError{Name: name}
		}
		if name == tag {
			return io.WriteString(w, v)
		}
		return io.WriteString(w, startTag+prefix+v)
	})
}

// Placeholders lists the distinct placeholder names in tpl in order of first appearance.
func Placeholders(tpl string) []string {
	var names []string
	seen := make(map[string]struct{})
	_, _ = fasttemplate.ExecuteFuncStringWithErr(tpl, startTag, endTag, func(w io.Writer, tag string) (int, error) {
		_, name, ok := splitTag(tag)
		if !ok {
			return 0, nil
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return 0, nil
	})
	return names
}
