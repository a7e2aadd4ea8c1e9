package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"hrdesk/internal/hr"
	"hrdesk/internal/models"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Notifier tells an employee that a leave request was decided.
type Notifier interface {
	LeaveDecided(user models.User, leave models.LeaveRequest) error
}

// Noop is used when no SMTP host is configured.
type Noop struct{}

func (Noop) LeaveDecided(models.User, models.LeaveRequest) error { return nil }

type SMTP struct {
	Cfg Config
}

func NewNotifier(cfg Config) Notifier {
	if cfg.Host == "" {
		return Noop{}
	}
	return &SMTP{Cfg: cfg}
}

func (s *SMTP) LeaveDecided(user models.User, leave models.LeaveRequest) error {
	subject, body := LeaveDecisionMessage(user, leave)
	return s.send(user.Email, subject, body)
}

// LeaveDecisionMessage renders the subject and plain-text body of the notice.
func LeaveDecisionMessage(user models.User, leave models.LeaveRequest) (string, string) {
	status := strings.ToLower(leave.Status)
	subject := fmt.Sprintf("Your leave request was %s", status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour leave request from %s to %s (%d day(s)) was %s.\nReason: %s\n",
		user.Name,
		leave.StartDate.Format("2006-01-02"),
		leave.EndDate.Format("2006-01-02"),
		hr.DurationDays(leave.StartDate, leave.EndDate),
		status,
		leave.Reason,
	)
	return subject, body
}

func (s *SMTP) send(to string, subject string, body string) error {
	cfg := s.Cfg
	message := buildMessage(cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	fromAddr := parseAddress(cfg.From)

	client, err := smtpClient(addr, cfg.Host, cfg.Port)
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			return err
		}
	}
	if err := client.Mail(fromAddr); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func smtpClient(addr string, host string, port int) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	if port == 465 {
		conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: host})
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, host)
	}

	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return nil, err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return client, nil
}

func buildMessage(from string, to string, subject string, body string) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}
	return strings.Join(headers, "\r\n")
}

func parseAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}
