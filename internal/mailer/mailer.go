package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"

	"oneflow/internal/config"
)

// Mailer delivers account emails over SMTP when configured, falling back to
// the Resend HTTP API otherwise.
type Mailer struct {
	cfg config.EmailConfig
}

func New(cfg config.EmailConfig) *Mailer { return &Mailer{cfg: cfg} }

func (m *Mailer) SendOTPEmail(email, code, name string) error {
	subject := "Your OneFlow verification code"
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>Your verification code is <strong>%s</strong>.</p>`+
			`<p>It expires in 10 minutes.</p>`,
		name, code,
	)
	return m.send(email, subject, html)
}

func (m *Mailer) SendWelcomeEmail(email, name string) error {
	subject := "Welcome to OneFlow"
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>Your account is verified. You can sign in now.</p>`,
		name,
	)
	return m.send(email, subject, html)
}

func (m *Mailer) send(to, subject, html string) error {
	if m.cfg.SMTPEnabled {
		return m.sendViaSMTP(to, subject, html)
	}
	return m.sendViaResend(to, subject, html)
}

func (m *Mailer) sendViaSMTP(to, subject, html string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.cfg.From, to, subject, html,
	))
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *Mailer) sendViaResend(to, subject, html string) error {
	body := resendRequest{
		From:    m.cfg.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.ResendAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend api: status %d", resp.StatusCode)
	}
	return nil
}
