package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"

	"github.com/go-mail/mail/v2"
)

//go:embed "templates"
var templateFS embed.FS

type Mailer interface {
	Send(recipient, templateFile string, data any) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// SMTPMailer renders a template's subject, plainBody and htmlBody blocks and sends the result.
type SMTPMailer struct {
	dialer *mail.Dialer
	sender string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = 5 * time.Second

	return &SMTPMailer{
		dialer: dialer,
		sender: cfg.Sender,
	}
}

func (m *SMTPMailer) Send(recipient, templateFile string, data any) error {
	msg, err := Render(templateFile, data)
	if err != nil {
		return err
	}

	message := mail.NewMessage()
	message.SetHeader("To", recipient)
	message.SetHeader("From", m.sender)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/plain", msg.PlainBody)
	message.AddAlternative("text/html", msg.HTMLBody)

	return m.dialer.DialAndSend(message)
}

type Message struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

func Render(templateFile string, data any) (*Message, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateFile, err)
	}

	subject := new(bytes.Buffer)
	if err = tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return nil, err
	}

	plainBody := new(bytes.Buffer)
	if err = tmpl.ExecuteTemplate(plainBody, "plainBody", data); err != nil {
		return nil, err
	}

	htmlTmpl, err := htmltemplate.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateFile, err)
	}

	htmlBody := new(bytes.Buffer)
	if err = htmlTmpl.ExecuteTemplate(htmlBody, "htmlBody", data); err != nil {
		return nil, err
	}

	return &Message{
		Subject:   subject.String(),
		PlainBody: plainBody.String(),
		HTMLBody:  htmlBody.String(),
	}, nil
}
