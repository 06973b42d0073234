package mail

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/joy095/salon/logger"
)

// Mailer sends lifecycle notifications. Every send is best-effort: failures
// are logged and never propagated into the triggering flow.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailerFromEnv returns nil when SMTP is not configured, which disables
// notifications without disabling the flows that would send them.
func NewMailerFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		logger.InfoLogger.Info("SMTP_HOST not set, email notifications disabled")
		return nil
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}

	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *Mailer) send(to, subject, body string) {
	if m == nil || to == "" {
		return
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.WarnLogger.Warnf("Failed to send %q email to %s: %v", subject, to, err)
	}
}

// SendBookingStatus notifies a customer about a booking status change.
func (m *Mailer) SendBookingStatus(to, serviceName, status string) {
	subject := fmt.Sprintf("Your booking is %s", status)
	body := fmt.Sprintf("Hello,\n\nYour booking for %q is now %s.\n\nThank you.", serviceName, status)
	go m.send(to, subject, body)
}

// SendPaymentReceived notifies a customer about a confirmed payment.
func (m *Mailer) SendPaymentReceived(to, transactionRef string, amount float64) {
	subject := "Payment received"
	body := fmt.Sprintf("Hello,\n\nYour payment of KSh %.2f (ref %s) was received.\n\nThank you.", amount, transactionRef)
	go m.send(to, subject, body)
}
