package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

const (
	senderName = "Digital Receipt App"
	otpSubject = "OTP Code"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SSL      bool // implicit TLS; otherwise STARTTLS when offered
	Timeout  time.Duration
}

// SMTPMailer sends OTP emails through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(ctx context.Context, msg *mail.Msg) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	m.send = m.dialAndSend
	return m
}

func (m *SMTPMailer) SendOTP(ctx context.Context, email, code string) error {
	msg, err := m.buildMessage(email, code)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	return m.send(ctx, msg)
}

func (m *SMTPMailer) buildMessage(email, code string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(senderName, m.cfg.From); err != nil {
		return nil, fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(email); err != nil {
		return nil, fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(otpSubject)
	msg.SetBodyString(mail.TypeTextPlain, "OTP code: "+code)
	return msg, nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
