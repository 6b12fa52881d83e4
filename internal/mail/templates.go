package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	texttemplate "text/template"
)

type templatePair struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

type templateData struct {
	Name string
	Link string
}

var (
	verifyEmailTmpl = templatePair{
		subject: "Verify your email address",
		text: texttemplate.Must(texttemplate.New("verify").Parse(
			"Hi {{.Name}},\n\nConfirm your email address by opening the link below:\n\n{{.Link}}\n")),
		html: htmltemplate.Must(htmltemplate.New("verify").Parse(
			`<p>Hi {{.Name}},</p><p>Confirm your email address by opening the link below:</p><p><a href="{{.Link}}">Verify email</a></p>`)),
	}

	resetRequestTmpl = templatePair{
		subject: "Reset your password",
		text: texttemplate.Must(texttemplate.New("reset").Parse(
			"Hi {{.Name}},\n\nSomeone asked to reset the password for your account. If it was you, open the link below:\n\n{{.Link}}\n\nIf not, ignore this email.\n")),
		html: htmltemplate.Must(htmltemplate.New("reset").Parse(
			`<p>Hi {{.Name}},</p><p>Someone asked to reset the password for your account. If it was you, open the link below:</p><p><a href="{{.Link}}">Reset password</a></p><p>If not, ignore this email.</p>`)),
	}

	resetDoneTmpl = templatePair{
		subject: "Your password was changed",
		text: texttemplate.Must(texttemplate.New("reset-done").Parse(
			"Hi {{.Name}},\n\nThe password for your account was just changed.\n")),
		html: htmltemplate.Must(htmltemplate.New("reset-done").Parse(
			`<p>Hi {{.Name}},</p><p>The password for your account was just changed.</p>`)),
	}
)

func (tp templatePair) render(to string, data templateData) (Message, error) {
	var text, html bytes.Buffer
	if err := tp.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", tp.text.Name(), err)
	}
	if err := tp.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", tp.html.Name(), err)
	}
	return Message{To: to, Subject: tp.subject, Text: text.String(), HTML: html.String()}, nil
}

// VerifyEmail builds the message sent after registration.
func VerifyEmail(to, name, appURL, token string) (Message, error) {
	return verifyEmailTmpl.render(to, templateData{Name: name, Link: link(appURL, "/verify-email", token)})
}

// ResetRequest builds the message carrying a password reset link.
func ResetRequest(to, name, appURL, token string) (Message, error) {
	return resetRequestTmpl.render(to, templateData{Name: name, Link: link(appURL, "/reset-password", token)})
}

// ResetDone builds the confirmation sent after a password reset.
func ResetDone(to, name string) (Message, error) {
	return resetDoneTmpl.render(to, templateData{Name: name})
}

func link(appURL, path, token string) string {
	return appURL + path + "?token=" + url.QueryEscape(token)
}
