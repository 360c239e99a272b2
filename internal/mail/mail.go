package mail

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewFromEnv returns nil when SMTP is not configured; callers treat a
// nil mailer as "invitations disabled".
func NewFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

// SendGuestInvite mails an RSVP invitation to a newly added guest.
func (m *Mailer) SendGuestInvite(to, guestName, eventName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("You're invited to %s", eventName))
	msg.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
			<h2>Hi %s,</h2>
			<p>You have been invited to <strong>%s</strong>.</p>
			<p>Please let your host know whether you can make it.</p>
			<p>— Celebrate</p>
		</div>
	`, guestName, eventName))
	return m.dialer.DialAndSend(msg)
}
