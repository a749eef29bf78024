package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	gomail "gopkg.in/mail.v2"
)

// DefaultTimeout bounds dialing and every read/write of an SMTP session when
// SMTPConfig.Timeout is not set.
const DefaultTimeout = 10 * time.Second

var (
	// ErrSMTPHostPortRequired is returned when Host/Port are missing.
	ErrSMTPHostPortRequired = errors.New("smtp host and port are required")
	// ErrSMTPNoRecipients is returned when To has no non-empty address.
	ErrSMTPNoRecipients = errors.New("no recipients provided")
	// ErrSMTPNoSender is returned when both Message.From and the configured default From are empty.
	ErrSMTPNoSender = errors.New("no sender provided")
)

// SMTP is a Mail implementation backed by gopkg.in/mail.v2.
//
// Every Send opens its own connection; nothing is pooled between calls.
type SMTP struct {
	dialer      *gomail.Dialer
	defaultFrom string
}

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	// Host is the SMTP server hostname.
	Host string
	// Port is the SMTP server port.
	Port int
	// Username is the SMTP authentication username. Authentication is
	// attempted whenever it is set.
	Username string
	// Password is the SMTP authentication password.
	Password string
	// From is the default sender when Message.From is empty.
	From string
	// UseSSL opens the connection with implicit TLS.
	UseSSL bool
	// UseTLS issues STARTTLS when the server advertises it. It is not checked
	// against UseSSL; with both set the implicit TLS session wins.
	UseTLS bool
	// Timeout bounds dialing and each read/write. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	return &SMTP{
		dialer:      newDialer(cfg),
		defaultFrom: cfg.From,
	}, nil
}

// NewSMTPFactory returns a Factory that builds SMTP transports with the given
// timeout applied when the config does not carry its own.
func NewSMTPFactory(timeout time.Duration) Factory {
	return func(cfg SMTPConfig) (Mail, error) {
		if cfg.Timeout <= 0 {
			cfg.Timeout = timeout
		}
		return NewSMTP(cfg)
	}
}

func newDialer(cfg SMTPConfig) *gomail.Dialer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	// NewDialer guesses SSL from the port; the stored flag is authoritative.
	d.SSL = cfg.UseSSL
	d.StartTLSPolicy = gomail.NoStartTLS
	if cfg.UseTLS {
		d.StartTLSPolicy = gomail.OpportunisticStartTLS
	}

	d.Timeout = cfg.Timeout
	if d.Timeout <= 0 {
		d.Timeout = DefaultTimeout
	}
	d.RetryFailure = false

	return d
}

// Send delivers a message over SMTP.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	d := *s.dialer
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d.Timeout {
			d.Timeout = left
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", d.Host, d.Port, err)
	}

	return nil
}

// Close implements io.Closer for interface compatibility.
func (s *SMTP) Close() error {
	return nil
}

func (s *SMTP) buildMessage(msg Message) (*gomail.Message, error) {
	to := lo.Compact(msg.To)
	if len(to) == 0 {
		return nil, ErrSMTPNoRecipients
	}

	from := msg.From
	if from == "" {
		from = s.defaultFrom
	}
	if from == "" {
		return nil, ErrSMTPNoSender
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)

	return m, nil
}
