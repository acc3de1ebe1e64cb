package features

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/goliatone/go-admincustomizer/internal/logging"
	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
)

// ErrNoTransport is returned when no mailer_init handler enabled SMTP.
var ErrNoTransport = errors.New("features: no mail transport configured")

// SMTP routes outgoing mail through the configured SMTP server.
func SMTP() Toggle {
	return Toggle{
		Name:    "smtp",
		Enabled: func(cfg *Config) bool { return cfg.SMTP.Enabled && cfg.SMTP.Host != "" },
		Activate: func(cfg *Config, env Env) error {
			s := cfg.SMTP
			hooks.AddAction(env.Hooks, hooks.MailerInit, func(_ context.Context, mc *host.MailConfig) error {
				mc.UseSMTP = true
				mc.Host = s.Host
				mc.Port = s.Port
				mc.Auth = true
				mc.Username = s.Username
				mc.Password = s.Password
				mc.Secure = host.NormalizeSecure(s.Secure)
				if s.FromEmail != "" {
					mc.From = s.FromEmail
				}
				if s.FromName != "" {
					mc.FromName = s.FromName
				}
				return nil
			})
			return nil
		},
	}
}

// Message is an outgoing plain text email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Transport delivers a composed message.
type Transport interface {
	Deliver(ctx context.Context, cfg host.MailConfig, from string, to []string, data []byte) error
}

// Mailer resolves the transport through the mailer_init action and sends.
type Mailer struct {
	hooks     *hooks.Registry
	site      host.Site
	transport Transport
	logger    interfaces.Logger
	now       func() time.Time
}

// MailerOption configures a Mailer.
type MailerOption func(*Mailer)

// WithTransport replaces the SMTP transport.
func WithTransport(t Transport) MailerOption {
	return func(m *Mailer) {
		if t != nil {
			m.transport = t
		}
	}
}

// WithMailerLogger sets the logger.
func WithMailerLogger(logger interfaces.Logger) MailerOption {
	return func(m *Mailer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMailer builds a Mailer dispatching mailer_init on registry.
func NewMailer(registry *hooks.Registry, site host.Site, opts ...MailerOption) *Mailer {
	m := &Mailer{
		hooks:     registry,
		site:      site,
		transport: SMTPTransport{Timeout: 10 * time.Second},
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Resolve returns the mail configuration after mailer_init handlers ran.
func (m *Mailer) Resolve(ctx context.Context) (host.MailConfig, error) {
	cfg := host.MailConfig{From: m.site.AdminEmail, FromName: m.site.Name}
	if err := hooks.DoAction(ctx, m.hooks, hooks.MailerInit, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Send composes msg and delivers it.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("features: mail has no recipients")
	}
	cfg, err := m.Resolve(ctx)
	if err != nil {
		return err
	}
	if !cfg.UseSMTP {
		m.logger.Warn("mail.skipped", "reason", "no transport", "to", msg.To)
		return ErrNoTransport
	}

	from := mail.Address{Name: cfg.FromName, Address: cfg.From}
	data := composeMessage(from, msg, m.now())
	if err := m.transport.Deliver(ctx, cfg, cfg.From, msg.To, data); err != nil {
		m.logger.Error("mail.failed", "host", cfg.Host, "error", err)
		return fmt.Errorf("features: send mail: %w", err)
	}
	m.logger.Info("mail.sent", "host", cfg.Host, "to", msg.To)
	return nil
}

func composeMessage(from mail.Address, msg Message, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from.String())
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// SMTPTransport delivers over net/smtp. The ssl mode dials TLS directly; tls
// upgrades with STARTTLS.
type SMTPTransport struct {
	Timeout time.Duration
}

func (t SMTPTransport) Deliver(ctx context.Context, cfg host.MailConfig, from string, to []string, data []byte) error {
	dialer := &net.Dialer{Timeout: t.Timeout}
	addr := cfg.Address()
	tlsConfig := &tls.Config{ServerName: cfg.Host}

	var conn net.Conn
	var err error
	if cfg.Secure == host.SecureSSL {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if cfg.Secure == host.SecureTLS {
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}
	if cfg.Auth && cfg.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			return err
		}
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
