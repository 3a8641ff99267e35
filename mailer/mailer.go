// Package mailer e-mails the legend image to the spymasters.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 465

	subject = "Codenames legend"
	body    = "The legend is attached. Border color indicates which team goes first. Good luck!"
)

// Config holds the SMTP account the legend is sent from. Addr and Password
// usually come from the EMAIL_ADDR and EMAIL_PW environment variables.
type Config struct {
	Host     string
	Port     int
	Addr     string
	Password string
}

// Sender delivers messages. *mail.Client implements it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, msgs ...*mail.Msg) error
}

type Mailer struct {
	cfg    Config
	sender Sender
}

// New returns a Mailer that sends over implicit TLS with plain auth.
func New(cfg Config) (*Mailer, error) {
	if cfg.Addr == "" || cfg.Password == "" {
		return nil, errors.New("an e-mail address and password are required to send the legend")
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	c, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Addr),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return NewWithSender(cfg, c), nil
}

// NewWithSender returns a Mailer that hands messages to the given sender.
func NewWithSender(cfg Config, s Sender) *Mailer {
	return &Mailer{cfg: cfg, sender: s}
}

// SendLegend sends the image at path as an attachment to every address in to.
func (m *Mailer) SendLegend(ctx context.Context, to []string, path string) error {
	if len(to) == 0 {
		return errors.New("no recipients given")
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("Codemaster HQ", m.cfg.Addr); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.cfg.Addr, err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("invalid recipients %v: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.AttachFile(path, mail.WithFileName(filepath.Base(path)))

	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send legend: %w", err)
	}

	log.Info().Strs("to", to).Msg("Sent legend")
	return nil
}
