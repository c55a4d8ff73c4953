package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/bakery-next/internal/config"
	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/i18n"
	"github.com/bakery-next/internal/models"

	"github.com/google/uuid"
)

const (
	smtpDialTimeout    = 10 * time.Second
	smtpSessionTimeout = 30 * time.Second
)

var recipientRejectedKeywords = []string{
	"no such recipient",
	"no such user",
	"recipient not found",
	"recipient address rejected",
	"invalid recipient",
	"user unknown",
	"unknown user",
	"unknown mailbox",
	"mailbox unavailable",
}

// EmailService 邮件发送服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(msg outgoingMail) error
}

// outgoingMail 待投递的邮件
type outgoingMail struct {
	From    string
	To      string
	Subject string
	Raw     []byte
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.deliverSMTP
	return s
}

// Enabled 是否已开启并配置 SMTP
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled && s.cfg.Host != "" && s.cfg.Port != 0 && s.cfg.From != ""
}

// SendOrderConfirmationEmail 发送下单确认邮件
func (s *EmailService) SendOrderConfirmationEmail(order *models.Order, locale string) error {
	if order == nil {
		return ErrOrderNotFound
	}
	subject, body := buildOrderConfirmationContent(order, locale)
	return s.sendTextEmail(order.CustomerEmail, subject, body)
}

// SendOrderStatusEmail 发送订单状态通知
func (s *EmailService) SendOrderStatusEmail(order *models.Order, status int, locale string) error {
	if order == nil {
		return ErrOrderNotFound
	}
	subject, body := buildOrderStatusContent(order, status, locale)
	return s.sendTextEmail(order.CustomerEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	toEmail = strings.TrimSpace(toEmail)
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	raw := buildEmailMessage(from, toEmail, subject, body, time.Now())
	return normalizeEmailSendError(s.send(outgoingMail{
		From:    s.cfg.From,
		To:      toEmail,
		Subject: subject,
		Raw:     raw,
	}))
}

func buildOrderConfirmationContent(order *models.Order, locale string) (string, string) {
	locale = normalizeEmailLocale(locale)
	subject := i18n.Sprintf(locale, "email.order_confirmation.subject", order.OrderNo)
	body := i18n.Sprintf(locale, "email.order_confirmation.body", order.CustomerName, order.OrderNo, order.Total.String())

	var lines strings.Builder
	lines.WriteString(body)
	for _, detail := range order.Details {
		lines.WriteString(fmt.Sprintf("\n- %s x%d: %s", detail.Name, detail.Qty, detail.Amount.Minus(detail.Discount).String()))
	}
	return subject, lines.String()
}

func buildOrderStatusContent(order *models.Order, status int, locale string) (string, string) {
	locale = normalizeEmailLocale(locale)
	label := i18n.T(locale, "order.status."+models.OrderStatusText(status))
	subject := i18n.Sprintf(locale, "email.order_status.subject", order.OrderNo)
	body := i18n.Sprintf(locale, "email.order_status.body", order.CustomerName, order.OrderNo, label)
	if reason := strings.TrimSpace(order.CancelReason); reason != "" && status == constants.OrderStatusCancelled {
		body += "\n" + reason
	}
	return subject, body
}

func normalizeEmailLocale(locale string) string {
	if normalized := i18n.Normalize(locale); normalized != "" {
		return normalized
	}
	return i18n.DefaultLocale
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string, now time.Time) []byte {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 {
		domain = strings.Trim(from[at+1:], "> ")
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@%s>\r\n", uuid.NewString(), domain)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return buf.Bytes()
}

// deliverSMTP 按配置选择隐式 TLS、STARTTLS 或明文连接投递
func (s *EmailService) deliverSMTP(msg outgoingMail) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &net.Dialer{Timeout: smtpDialTimeout}
	tlsConfig := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(smtpSessionTimeout))

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if s.cfg.UseTLS && !s.cfg.UseSSL {
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}
	if s.cfg.Username != "" || s.cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg.Raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 550, 551, 553:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	for _, keyword := range recipientRejectedKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}
