// AngelaMos | 2026
// templates.go

package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	verifySubject = "Hostel Mess: Verify Your Email"
	resetSubject  = "Hostel Mess: Password Reset Request"
)

type emailData struct {
	Name     string
	Link     string
	Token    string
	ValidFor string
	Team     string
}

func render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
