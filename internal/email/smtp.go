package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

const (
	smtpTimeout = 30 * time.Second
)

// sanitizer strips any markup from admin-entered text (reject messages)
// before it is embedded in outbound mail.
var sanitizer = bluemonday.StrictPolicy()

type SMTPService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPService(host string, port int, username, password, from string) *SMTPService {
	return &SMTPService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPService) SendMagicLink(to, adminName, link string, ttl time.Duration) error {
	subject := "Your HackAttack Admin Login Link"
	body := fmt.Sprintf(`Hello %s!

Click the link below to sign in to the HackAttack admin dashboard:

    %s

This link can be used once and expires in %d minutes.

If you didn't request this email, you can safely ignore it.

- The HackAttack Team`, adminName, link, int(ttl.Minutes()))

	return s.send(to, subject, body)
}

func (s *SMTPService) SendTeamAccepted(to, teamLeader, teamName string) error {
	subject := "HackAttack Registration Approved"
	body := fmt.Sprintf(`Hello %s!

Great news - your team "%s" has been approved for HackAttack 2025.
You can now proceed with the competition.

- The HackAttack Team`, teamLeader, teamName)

	return s.send(to, subject, body)
}

func (s *SMTPService) SendTeamRejected(to, teamLeader, teamName, rejectMessage string) error {
	subject := "HackAttack Registration Update"
	body := fmt.Sprintf(`Hello %s,

Unfortunately your team "%s" registration for HackAttack 2025 was rejected.

Reason: %s

You may fix the issues above and resubmit your registration.

- The HackAttack Team`, teamLeader, teamName, sanitizer.Sanitize(rejectMessage))

	return s.send(to, subject, body)
}

func (s *SMTPService) SendWorkshopApproved(to, participantName, workshopTrack, institution string) error {
	subject := "HackAttack Workshop Registration Approved"
	body := fmt.Sprintf(`Hello %s!

Your registration for the %s workshop (%s) has been approved.
See you there!

- The HackAttack Team`, participantName, workshopTrack, institution)

	return s.send(to, subject, body)
}

func (s *SMTPService) SendWorkshopRejected(to, participantName, workshopTrack, institution, rejectMessage string) error {
	subject := "HackAttack Workshop Registration Update"
	body := fmt.Sprintf(`Hello %s,

Unfortunately your registration for the %s workshop (%s) was rejected.

Reason: %s

- The HackAttack Team`, participantName, workshopTrack, institution, sanitizer.Sanitize(rejectMessage))

	return s.send(to, subject, body)
}

func (s *SMTPService) send(to, subject, body string) error {
	msg := s.buildMessage(to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	ctx, cancel := context.WithTimeout(context.Background(), smtpTimeout)
	defer cancel()

	dialer := net.Dialer{Timeout: smtpTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.host}
		if err := client.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("STARTTLS: %w", err)
		}
	} else if s.port != 25 && s.port != 1025 {
		return fmt.Errorf("STARTTLS not available on port %d (required for secure auth)", s.port)
	}

	if s.username != "" && s.password != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication: %w", err)
		}
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("SMTP MAIL command: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT command: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA command: %w", err)
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		wc.Close()
		return fmt.Errorf("writing email body: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing email body: %w", err)
	}

	if err := client.Quit(); err != nil {
		slog.Warn("smtp QUIT command failed", "component", "email", "error", err)
	}

	return nil
}

func (s *SMTPService) buildMessage(to, subject, body string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		s.from, to, subject, body)
}
