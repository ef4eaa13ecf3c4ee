package mail

import (
	"context"
	"fmt"
	"strconv"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"user-registry-api/config"
)

const welcomeSubject = "Welcome aboard"

type sendFunc func(ctx context.Context, msgs ...*gomail.Msg) error

// Mailer delivers plain-text notifications over SMTP.
type Mailer struct {
	cfg  config.SMTP
	log  *zap.Logger
	send sendFunc
}

func New(cfg config.SMTP, logger *zap.Logger) (*Mailer, error) {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("smtp port %q: %w", cfg.Port, err)
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &Mailer{
		cfg:  cfg,
		log:  logger,
		send: client.DialAndSendWithContext,
	}, nil
}

func (m *Mailer) SendWelcome(ctx context.Context, to, fullName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.welcomeMessage(to, fullName)
	if err != nil {
		return err
	}
	if err = m.send(ctx, msg); err != nil {
		return fmt.Errorf("send welcome mail: %w", err)
	}

	m.log.Info("welcome mail sent", zap.String("to", to))

	return nil
}

func (m *Mailer) welcomeMessage(to, fullName string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("welcome mail sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("welcome mail recipient: %w", err)
	}
	msg.Subject(welcomeSubject)
	msg.SetDate()
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf("Hello %s,\r\n\r\nyour account has been created.\r\n", fullName))

	return msg, nil
}
