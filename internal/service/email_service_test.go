package service

import (
	"errors"
	"net/textproto"
	"strings"
	"testing"

	"github.com/bakery-next/internal/config"
	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/i18n"
	"github.com/bakery-next/internal/models"
)

func sampleEmailOrder() *models.Order {
	return &models.Order{
		OrderNo:       "BK01TEST",
		CustomerName:  "Lan",
		CustomerEmail: "lan@example.com",
		Total:         models.NewMoney(150000),
		Details: []models.OrderDetail{
			{Name: "Bánh mì", Qty: 2, Amount: models.NewMoney(60000), Discount: models.NewMoney(10000)},
		},
	}
}

func TestBuildOrderStatusContent(t *testing.T) {
	tests := []struct {
		name                string
		locale              string
		status              int
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:                "delivered_vi",
			locale:              i18n.LocaleVI,
			status:              constants.OrderStatusDelivered,
			wantSubjectContains: []string{"Cập nhật đơn hàng", "BK01TEST"},
			wantBodyContains:    []string{"Xin chào Lan", "Đã giao"},
		},
		{
			name:                "shipped_en",
			locale:              i18n.LocaleEN,
			status:              constants.OrderStatusShipped,
			wantSubjectContains: []string{"Order BK01TEST updated"},
			wantBodyContains:    []string{"Hello Lan", "Shipped"},
		},
		{
			name:                "cancelled_zh",
			locale:              i18n.LocaleZH,
			status:              constants.OrderStatusCancelled,
			wantSubjectContains: []string{"状态更新"},
			wantBodyContains:    []string{"已取消"},
		},
		{
			name:                "unknown_locale_falls_back",
			locale:              "fr-FR",
			status:              constants.OrderStatusProcessing,
			wantSubjectContains: []string{"Cập nhật đơn hàng"},
			wantBodyContains:    []string{"Đang xử lý"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOrderStatusContent(sampleEmailOrder(), tt.status, tt.locale)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestBuildOrderConfirmationContentListsNetLines(t *testing.T) {
	subject, body := buildOrderConfirmationContent(sampleEmailOrder(), i18n.LocaleEN)
	if subject != "Order BK01TEST confirmed" {
		t.Fatalf("unexpected subject: %s", subject)
	}
	for _, expected := range []string{"Hello Lan", "150000.00", "- Bánh mì x2: 50000.00"} {
		if !strings.Contains(body, expected) {
			t.Fatalf("body missing %q: %s", expected, body)
		}
	}
}

func TestSendOrderEmailRequiresConfiguredService(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := disabled.SendOrderConfirmationEmail(sampleEmailOrder(), ""); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}

	unconfigured := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := unconfigured.SendOrderStatusEmail(sampleEmailOrder(), constants.OrderStatusShipped, ""); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}

	configured := NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 587, From: "shop@example.com"})
	order := sampleEmailOrder()
	order.CustomerEmail = "not-an-email"
	if err := configured.SendOrderConfirmationEmail(order, ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "textproto_553",
			err:  &textproto.Error{Code: 553, Msg: "5.1.3 bad destination"},
			want: true,
		},
		{
			name: "textproto_421",
			err:  &textproto.Error{Code: 421, Msg: "service not available"},
			want: false,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}

	if got := normalizeEmailSendError(nil); got != nil {
		t.Fatalf("normalizeEmailSendError(nil) should be nil, got %v", got)
	}
}

func TestSendOrderConfirmationBuildsMessage(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{
		Enabled:  true,
		Host:     "smtp.example.com",
		Port:     587,
		From:     "shop@example.com",
		FromName: "Tiệm Bánh",
	})
	var sent outgoingMail
	svc.send = func(msg outgoingMail) error {
		sent = msg
		return nil
	}

	order := sampleEmailOrder()
	if err := svc.SendOrderConfirmationEmail(order, i18n.LocaleEN); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if sent.From != "shop@example.com" || sent.To != order.CustomerEmail {
		t.Fatalf("unexpected envelope: from=%s to=%s", sent.From, sent.To)
	}
	raw := string(sent.Raw)
	for _, want := range []string{"Message-ID: <", "@example.com>", "Content-Type: text/plain; charset=UTF-8", "\r\n\r\n"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("raw message missing %q:\n%s", want, raw)
		}
	}
	if strings.Contains(strings.ReplaceAll(raw, "\r\n", ""), "\n") {
		t.Fatalf("body line endings should be CRLF")
	}

	svc.send = func(outgoingMail) error {
		return &textproto.Error{Code: 550, Msg: "no such user"}
	}
	if err := svc.SendOrderConfirmationEmail(order, ""); !errors.Is(err, ErrEmailRecipientRejected) {
		t.Fatalf("expected ErrEmailRecipientRejected, got %v", err)
	}
}
