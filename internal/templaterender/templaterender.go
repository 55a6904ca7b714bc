// Package templaterender renders TemplateStep and OutputStep bodies
// against an execution context using text/template, with impurity
// rejection: any call to a function that would introduce
// non-determinism (now, random, and equivalents) is refused before the
// template can execute (spec §4.6).
package templaterender

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

// forbiddenFuncs are names the template FuncMap deliberately omits.
// Referencing one by name inside a template body is rejected before
// parsing, and any other spelling of a call to one still fails when
// the template is parsed, because it was never registered.
var forbiddenFuncs = []string{"now", "random", "rand", "uuid", "env", "getenv"}

// Render parses body as a text/template and executes it against data.
// stepID identifies the owning step for error reporting. The pipe-filter
// syntax ({{var|filter}}) the engine's templates use is plain
// text/template syntax, since pipe is text/template's native
// function-chaining operator.
func Render(stepID string, body string, data interface{}) (string, error) {
	if fn, ok := containsForbiddenCall(body); ok {
		return "", khookerrors.NewTemplateImpurity(stepID, fn)
	}

	tmpl, err := template.New(stepID).Funcs(safeFuncMap()).Option("missingkey=zero").Parse(body)
	if err != nil {
		return "", khookerrors.NewTemplateImpurity(stepID, err.Error())
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		if fn, ok := matchForbidden(err.Error()); ok {
			return "", khookerrors.NewTemplateImpurity(stepID, fn)
		}
		return "", fmt.Errorf("render template for step %s: %w", stepID, err)
	}
	return buf.String(), nil
}

// containsForbiddenCall scans raw template text for a reference to a
// forbidden function name used as a call (either "fname(" or a pipe
// target "| fname"), catching the common non-determinism entry points
// before the template is even parsed.
func containsForbiddenCall(body string) (string, bool) {
	for _, fn := range forbiddenFuncs {
		if strings.Contains(body, fn+"(") {
			return fn, true
		}
		if strings.Contains(body, "|"+fn) || strings.Contains(body, "| "+fn) {
			return fn, true
		}
	}
	return "", false
}

func matchForbidden(errText string) (string, bool) {
	for _, fn := range forbiddenFuncs {
		if strings.Contains(errText, fn) {
			return fn, true
		}
	}
	return "", false
}

// safeFuncMap provides the deterministic helper functions templates
// may use for formatting. Anything that reads the clock, randomness,
// or the environment is intentionally absent so such calls fail to
// parse (unknown function) rather than silently executing.
func safeFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"trim":    strings.TrimSpace,
		"join":    strings.Join,
		"split":   strings.Split,
		"replace": strings.ReplaceAll,
		"default": func(def, v interface{}) interface{} {
			if v == nil || v == "" {
				return def
			}
			return v
		},
	}
}
