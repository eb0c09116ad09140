package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"innkeep/internal/domain/alert"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPEscalationNotifier delivers alert escalation notices over SMTP. It
// implements the alert layer's EscalationNotifier port.
type SMTPEscalationNotifier struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEscalationNotifier(config SMTPConfig) *SMTPEscalationNotifier {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEscalationNotifier{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEscalationNotifier) NotifyEscalation(ctx context.Context, a *alert.AllocationAlert, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("[%s] Booking %d still has no room (escalation level %d)",
		strings.ToUpper(a.Severity().String()), a.BookingID(), a.EscalationLevel())

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Room Allocation Escalation</h2>
			<p>Booking <strong>%d</strong> is confirmed but still has no room assigned.</p>
			<ul>
				<li>Alert type: %s</li>
				<li>Severity: %s</li>
				<li>Escalation level: %d</li>
				<li>Alert open since: %s</li>
			</ul>
			<p>Please assign a room or dismiss the alert in the allocation console.</p>
		</body>
		</html>
	`, a.BookingID(), a.Type().String(), a.Severity().String(),
		a.EscalationLevel(), a.CreatedAt().Format(time.RFC1123))

	plainBody := fmt.Sprintf(`
Room Allocation Escalation

Booking %d is confirmed but still has no room assigned.

Alert type: %s
Severity: %s
Escalation level: %d
Alert open since: %s

Please assign a room or dismiss the alert in the allocation console.
	`, a.BookingID(), a.Type().String(), a.Severity().String(),
		a.EscalationLevel(), a.CreatedAt().Format(time.RFC1123))

	return s.sendEmail(recipients, subject, htmlBody, plainBody)
}

func (s *SMTPEscalationNotifier) sendEmail(to []string, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send escalation email: %w", err)
	}

	return nil
}
