package service

import (
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/eventhub-app/eventhub-api/internal/domain"
)

// Notifier delivers moderation and registration notifications.
// Delivery is best effort: an operation never fails because its
// notification did.
type Notifier interface {
	TicketIssued(user domain.User, event domain.Event, ticket domain.Ticket)
	EventRejected(organizer domain.User, event domain.Event)
	ContactMessage(name, email, subject, message string)
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// ContactTo receives contact-form messages; defaults to From.
	ContactTo string
}

// EmailNotifier sends the ticket confirmation email with the ticket's
// QR code attached inline.
type EmailNotifier struct {
	dialer    *gomail.Dialer
	from      string
	contactTo string
}

func NewEmailNotifier(conf SMTPConfig) *EmailNotifier {
	contactTo := conf.ContactTo
	if contactTo == "" {
		contactTo = conf.From
	}

	return &EmailNotifier{
		dialer:    gomail.NewDialer(conf.Host, conf.Port, conf.Username, conf.Password),
		from:      conf.From,
		contactTo: contactTo,
	}
}

func (n *EmailNotifier) TicketIssued(user domain.User, event domain.Event, ticket domain.Ticket) {
	go func() {
		if err := n.send(user, event, ticket); err != nil {
			zap.L().Error("failed to send ticket email",
				zap.String("ticket_number", ticket.TicketNumber),
				zap.String("email", user.Email),
				zap.Error(err),
			)
		}
	}()
}

func (n *EmailNotifier) EventRejected(organizer domain.User, event domain.Event) {
	go func() {
		m := gomail.NewMessage()
		m.SetHeader("From", n.from)
		m.SetHeader("To", organizer.Email)
		m.SetHeader("Subject", fmt.Sprintf("Your event %s was not approved", event.Name))
		m.SetBody("text/html", fmt.Sprintf(
			`<p>Hello %s,</p>
<p>Your event <strong>%s</strong> was reviewed and not approved.</p>
<p>Reason: %s</p>
<p>You can edit the event and submit it again.</p>`,
			organizer.FirstName, event.Name, event.RejectionReason,
		))

		if err := n.dialer.DialAndSend(m); err != nil {
			zap.L().Error("failed to send rejection email",
				zap.String("event_id", event.ID.String()),
				zap.String("email", organizer.Email),
				zap.Error(err),
			)
		}
	}()
}

func (n *EmailNotifier) ContactMessage(name, email, subject, message string) {
	go func() {
		m := gomail.NewMessage()
		m.SetHeader("From", n.from)
		m.SetHeader("To", n.contactTo)
		m.SetHeader("Reply-To", email)
		m.SetHeader("Subject", fmt.Sprintf("Contact form: %s", subject))
		m.SetBody("text/html", fmt.Sprintf(
			`<p>From: %s &lt;%s&gt;</p>
<p>%s</p>`,
			name, email, message,
		))

		if err := n.dialer.DialAndSend(m); err != nil {
			zap.L().Error("failed to forward contact message",
				zap.String("email", email),
				zap.Error(err),
			)
		}
	}()
}

func (n *EmailNotifier) send(user domain.User, event domain.Event, ticket domain.Ticket) error {
	png, err := qrcode.Encode(ticket.QRCodeData, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("qrcode.Encode -> %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", fmt.Sprintf("Your ticket for %s", event.Name))
	m.SetBody("text/html", fmt.Sprintf(
		`<p>Hello %s,</p>
<p>Your registration for <strong>%s</strong> is confirmed.</p>
<p>Ticket number: <strong>%s</strong></p>
<p>Show the QR code below at the entrance:</p>
<p><img src="cid:ticket-qr.png" alt="ticket QR code"/></p>`,
		user.FirstName, event.Name, ticket.TicketNumber,
	))
	m.Embed("ticket-qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(png)
		return err
	}))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("n.dialer.DialAndSend -> %w", err)
	}

	return nil
}

// NopNotifier drops notifications; used when SMTP is not configured.
type NopNotifier struct{}

func (NopNotifier) TicketIssued(domain.User, domain.Event, domain.Ticket) {}

func (NopNotifier) EventRejected(domain.User, domain.Event) {}

func (NopNotifier) ContactMessage(name, email, subject, message string) {}
