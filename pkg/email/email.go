package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
	"time"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
}

// EmailService sends staff emails over SMTP
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// Enabled reports whether an SMTP host is configured
func (s *EmailService) Enabled() bool {
	return s.config.SMTPHost != ""
}

// InvitationData is rendered into the invitation template
type InvitationData struct {
	Code      string
	Role      string
	ExpiresAt time.Time
}

// SendInvitationEmail sends a staff invitation code to toEmail
func (s *EmailService) SendInvitationEmail(toEmail string, data InvitationData) error {
	if !s.Enabled() {
		return nil
	}

	signupURL := fmt.Sprintf("%s/register?code=%s&email=%s",
		s.config.FrontendURL,
		url.QueryEscape(data.Code),
		url.QueryEscape(toEmail),
	)

	body, err := renderInvitation(data, signupURL)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	message := s.buildHTMLEmail(toEmail, "You're invited to join the team", body)
	return s.sendEmail(toEmail, message)
}

func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

var invitationTmpl = template.Must(template.New("invitation").Parse(invitationTemplate))

func renderInvitation(data InvitationData, signupURL string) (string, error) {
	var buf bytes.Buffer
	err := invitationTmpl.Execute(&buf, struct {
		InvitationData
		SignupURL string
		Expires   string
	}{
		InvitationData: data,
		SignupURL:      signupURL,
		Expires:        data.ExpiresAt.Format("02 Jan 2006"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

const invitationTemplate = `
<!DOCTYPE html>
<html lang="en">
<body style="margin:0;padding:24px;font-family:Helvetica,Arial,sans-serif;background:#f6f3ee;">
  <table role="presentation" style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:10px;">
    <tr>
      <td style="padding:32px;">
        <h2 style="margin:0 0 16px 0;color:#2d2a26;">Welcome aboard</h2>
        <p style="color:#4a4540;line-height:1.6;">You have been invited to join the team as <strong>{{.Role}}</strong>.</p>
        <p style="color:#4a4540;line-height:1.6;">Your invitation code:</p>
        <p style="font-size:28px;letter-spacing:4px;font-weight:bold;color:#8a3b12;">{{.Code}}</p>
        <p style="color:#4a4540;line-height:1.6;">
          <a href="{{.SignupURL}}" style="color:#8a3b12;">Create your account</a> before {{.Expires}}.
        </p>
      </td>
    </tr>
  </table>
</body>
</html>
`
