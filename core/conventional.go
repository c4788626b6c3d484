package core

import (
	"regexp"
	"strings"

	"github.com/commitcritic/commitcritic/schema"
)

// conventionalPattern matches "type(scope): description" or "type: description".
// (?s) lets the description span the commit body.
var conventionalPattern = regexp.MustCompile(`(?s)^(\w+)(?:\(([^)]+)\))?:\s*(.+)$`)

// ParseConventionalCommit splits a message into its conventional-commit type,
// scope and description. Messages that do not parse (or use an unknown type)
// come back with nil type/scope and the full message as description.
func ParseConventionalCommit(message string) (commitType, scope *string, description string) {
	m := conventionalPattern.FindStringSubmatch(message)
	if m == nil {
		return nil, nil, message
	}

	ct := strings.ToLower(m[1])
	if _, ok := schema.ConventionalTypes[ct]; !ok {
		return nil, nil, message
	}

	description = strings.TrimSpace(m[3])
	commitType = &ct
	if m[2] != "" {
		sc := strings.ToLower(m[2])
		scope = &sc
	}
	return commitType, scope, description
}
