package services

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"lorve_back_end/internal/config"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/utils"

	"github.com/wneessen/go-mail"
)

// Mailer sends the transactional emails over SMTP. When SMTP is not
// configured messages are logged instead of sent.
type Mailer struct {
	cfg     config.SMTPConfig
	baseURL string
}

func NewMailer(cfg config.SMTPConfig, baseURL string) *Mailer {
	return &Mailer{cfg: cfg, baseURL: baseURL}
}

// SignupLink is the URL mailed to a shopper who asked to sign up.
func (m *Mailer) SignupLink(token, email string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	return m.baseURL + "/signup?" + q.Encode()
}

func (m *Mailer) SendSignupLink(ctx context.Context, email, token string) error {
	html, err := utils.SignupLinkHTML(m.SignupLink(token, email))
	if err != nil {
		return fmt.Errorf("render signup email: %w", err)
	}
	return m.send(ctx, email, "Complete your LORVÉ sign-up", html)
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, order models.Order) error {
	html, err := utils.OrderConfirmationHTML(order)
	if err != nil {
		return fmt.Errorf("render order email: %w", err)
	}
	return m.send(ctx, order.Email, "✅ Order confirmed - LORVÉ", html)
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	if m.cfg.Host == "" {
		log.Printf("📭 SMTP not configured, skipping email to %s: %s", to, subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Sending email to", to)
	return client.DialAndSendWithContext(ctx, msg)
}
