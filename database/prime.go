package database

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// AppRole is the role granted to the application user. It holds row-level
// privileges on the schema but cannot alter it.
const AppRole = "donation_coordinator"

//go:embed prime.sql.tmpl
var primeTemplate string

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// RenderPrimeSQL returns the statements that create AppRole and the
// application user, and grant the role its privileges.
func RenderPrimeSQL(username, password string) (string, error) {
	if !identifierPattern.MatchString(username) {
		return "", fmt.Errorf("invalid username %q: use lower-case letters, digits and underscores", username)
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	tmpl, err := template.New("prime").Parse(primeTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	data := struct {
		Role     string
		Username string
		Password string
	}{
		Role:     AppRole,
		Username: username,
		Password: strings.ReplaceAll(password, "'", "''"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
