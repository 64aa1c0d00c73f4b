package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"bloghub/internal/config"
)

// Sender renders a message into an email and delivers it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type smtpSender struct {
	addr string
	host string
	user string
	pass string
	from string
}

// NewSMTPSender returns a Sender that delivers over plain SMTP. Auth is
// skipped when no username is configured, which covers local catchers
// like MailHog.
func NewSMTPSender(cfg *config.Config) Sender {
	return &smtpSender{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		host: cfg.SMTPHost,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
	}
}

var verificationTmpl = template.Must(template.New("verification").Parse(
	`<p>Hi {{.FirstName}},</p>
<p>Thanks for signing up. Please confirm your email address to activate your account:</p>
<p><a href="http://{{.Domain}}/api/v1/accounts/activation/confirm/{{.Token}}">Activate account</a></p>
<p>The link expires in 24 hours. If you did not register, you can ignore this email.</p>`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(
	`<p>Hi {{.FirstName}},</p>
<p>We received a request to reset your password. Follow the link below to choose a new one:</p>
<p><a href="http://{{.Domain}}/api/v1/accounts/reset-password/confirm/{{.UID}}/{{.Token}}">Reset password</a></p>
<p>The link expires in 3 days. If you did not request a reset, you can ignore this email.</p>`))

func (s *smtpSender) Send(_ context.Context, msg Message) error {
	var subject string
	var body bytes.Buffer
	switch msg.Type {
	case TypeVerification:
		subject = "Confirm your email address"
		if err := verificationTmpl.Execute(&body, msg); err != nil {
			return fmt.Errorf("render verification email: %w", err)
		}
	case TypePasswordReset:
		subject = "Reset your password"
		if err := passwordResetTmpl.Execute(&body, msg); err != nil {
			return fmt.Errorf("render password reset email: %w", err)
		}
	default:
		return fmt.Errorf("unknown email type %q", msg.Type)
	}

	var sb strings.Builder
	sb.WriteString("From: " + s.from + "\r\n")
	sb.WriteString("To: " + msg.Recipient + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.Write(body.Bytes())

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}
	if err := smtp.SendMail(s.addr, auth, s.from, []string{msg.Recipient}, []byte(sb.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
