package queue

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends booking-confirmation emails over SMTP with implicit TLS
// (the smtps port).  When Sender or Password is empty the mailer is
// unconfigured and the consumer falls back to logging deliveries.
type Mailer struct {
	Host     string
	Port     string
	Sender   string
	Password string
}

// Configured reports whether credentials are present.
func (m *Mailer) Configured() bool {
	return m != nil && m.Sender != "" && m.Password != ""
}

// SendBookingConfirmation renders and delivers the confirmation email for
// the event.  One shot, no retry.
func (m *Mailer) SendBookingConfirmation(ev BookingConfirmedEvent) error {
	to := strings.TrimSpace(ev.Email)
	if to == "" {
		return fmt.Errorf("mailer: event %s has no recipient", ev.BookingID)
	}
	subject := fmt.Sprintf("Booking Confirmed: %s - %s", ev.EventName, ev.BookingID)
	body := confirmationHTML(ev)

	msg := strings.Join([]string{
		"From: " + m.Sender,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := m.Host + ":" + m.Port

	// smtps: the connection is TLS from the first byte, so net/smtp's
	// STARTTLS flow does not apply.
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.Host})
	if err != nil {
		return fmt.Errorf("mailer: dial %s: %w", addr, err)
	}
	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mailer: handshake: %w", err)
	}
	defer c.Close()

	auth := smtp.PlainAuth("", m.Sender, m.Password, m.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("mailer: auth: %w", err)
	}
	if err := c.Mail(m.Sender); err != nil {
		return fmt.Errorf("mailer: mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("mailer: rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mailer: data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("mailer: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailer: close: %w", err)
	}
	return c.Quit()
}

func confirmationHTML(ev BookingConfirmedEvent) string {
	name := ev.UserName
	if name == "" {
		name = ev.USN
	}
	seats := strings.Join(ev.Seats, ", ")
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="border-bottom: 2px solid #0056b3; padding-bottom: 20px;">
    <h2 style="color: #0056b3;">Booking Confirmation</h2>
    <p>Dear <strong>%s</strong>,</p>
    <p>We are pleased to confirm your booking for the following event:</p>
    <ul style="line-height: 1.6;">
      <li><strong>Event:</strong> %s</li>
      <li><strong>Venue:</strong> %s</li>
      <li><strong>Date:</strong> %s</li>
      <li><strong>Time:</strong> %s</li>
      <li><strong>Booking ID:</strong> <span style="font-family: monospace; background: #eee; padding: 2px 5px; border-radius: 4px;">%s</span></li>
      <li><strong>Seats:</strong> %s</li>
    </ul>
    <p>Please present your ticket (QR code) at the venue entrance.</p>
    <p style="margin-top: 20px; font-size: 0.9em; color: #555;">
      Regards,<br><strong>GM University Management</strong>
    </p>
  </div>
</div>`,
		name, ev.EventName, ev.Auditorium, ev.Date, ev.Time, ev.BookingID, seats)
}
