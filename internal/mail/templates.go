package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

const ResetPasswordSubject = "Change password"

var resetPasswordTmpl = template.Must(template.New("reset").Parse(
	`<p>Hi {{.Username}},</p><a href="{{.Link}}">reset password</a>`))

// ResetPasswordBody renders the reset-link e-mail.
func ResetPasswordBody(username, link string) (string, error) {
	var buf bytes.Buffer
	err := resetPasswordTmpl.Execute(&buf, struct {
		Username string
		Link     string
	}{username, link})
	if err != nil {
		return "", fmt.Errorf("render reset mail: %w", err)
	}
	return buf.String(), nil
}
