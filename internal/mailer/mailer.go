package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends verification and password reset emails. Callers run
// it in the background; a failed send must never fail the request that
// triggered it.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func NewSMTPMailer(host string, port int, username, password, from, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		baseURL: baseURL,
	}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

func (m *SMTPMailer) SendVerificationEmail(to, username, token string) error {
	link := fmt.Sprintf("%s/api/auth/confirmed_email/%s", m.baseURL, token)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Please confirm your email address by following <a href="%s">this link</a>.</p>
<p>The link is valid for 7 days.</p>`, username, link)

	return m.send(to, "Confirm your email", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(to, username, token string) error {
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>A password reset was requested for your account. Use the token below to set a new password:</p>
<p><code>%s</code></p>
<p>If you did not request this, you can ignore this email.</p>`, username, token)

	return m.send(to, "Password reset", body)
}
