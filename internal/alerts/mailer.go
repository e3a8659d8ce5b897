package alerts

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
)

type smtpConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

var mailCfg smtpConfig

// ConfigureMailerFromEnv loads SMTP configuration from environment variables.
// Required: SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM
func ConfigureMailerFromEnv() error {
	mailCfg = smtpConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
	if mailCfg.Host == "" || mailCfg.Port == "" || mailCfg.Username == "" || mailCfg.Password == "" || mailCfg.From == "" {
		return fmt.Errorf("smtp not configured: set SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM")
	}
	return nil
}

// SendEmail sends a plain text email using SMTP with TLS.
func SendEmail(to, subject, body string) error {
	if mailCfg.Host == "" {
		if err := ConfigureMailerFromEnv(); err != nil {
			return err
		}
	}

	addr := mailCfg.Host + ":" + mailCfg.Port
	msg := ""
	msg += fmt.Sprintf("From: %s\r\n", mailCfg.From)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/plain; charset=\"utf-8\"\r\n"
	msg += "\r\n" + body + "\r\n"

	tlsConfig := &tls.Config{ServerName: mailCfg.Host}
	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, mailCfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	auth := smtp.PlainAuth("", mailCfg.Username, mailCfg.Password, mailCfg.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(mailCfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return c.Quit()
}
