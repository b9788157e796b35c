package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Errors accumulates field-keyed validation messages so a response can
// report every offending field, not just the first one found.
type Errors map[string][]string

func New() Errors {
	return Errors{}
}

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Addf(field, format string, args ...interface{}) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Merge folds another set of errors into this one.
func (e Errors) Merge(other Errors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Err returns e as an error, or nil when no field failed.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
