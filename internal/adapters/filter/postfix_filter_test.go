package filter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/emersion/go-smtp"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/whitelist"
	"go.uber.org/zap/zaptest"
)

const (
	spamEmail = "From: promo@example.com\r\n" +
		"Subject: Claim your prize\r\n" +
		"To: bob@example.org\r\n" +
		"\r\n" +
		"Get it free now\r\n"
	hamEmail = "From: alice@example.net\r\n" +
		"Subject: Lunch\r\n" +
		"\r\n" +
		"See you at noon\r\n"
)

func newTestPostfixFilter(t *testing.T, cfg config.SMTPConfig, domains ...string) *PostfixFilter {
	logger := zaptest.NewLogger(t)
	return NewPostfixFilter(newTestService(t), whitelist.NewChecker(domains, logger), logger, cfg)
}

func TestPostfixFilter_FilterMessage(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.SMTPConfig
		sender   string
		raw      string
		domains  []string
		contains []string
		excludes []string
	}{
		{
			name:   "spam with subject prefix",
			cfg:    config.SMTPConfig{ModifySubject: true},
			sender: "promo@example.com",
			raw:    spamEmail,
			contains: []string{
				"X-Spam-Status: true\r\nX-Spam-Label: spam\r\nX-Spam-Model: test-model\r\n",
				"From: promo@example.com\r\nSubject: [**SPAM**] Claim your prize\r\nTo: bob@example.org\r\n\r\nGet it free now\r\n",
			},
		},
		{
			name:     "spam without subject change",
			cfg:      config.SMTPConfig{},
			sender:   "promo@example.com",
			raw:      spamEmail,
			contains: []string{"X-Spam-Status: true\r\n", "Subject: Claim your prize\r\n"},
			excludes: []string{"[**SPAM**]"},
		},
		{
			name:     "ham",
			cfg:      config.SMTPConfig{ModifySubject: true},
			sender:   "alice@example.net",
			raw:      hamEmail,
			contains: []string{"X-Spam-Status: false\r\nX-Spam-Label: not-spam\r\n", "Subject: Lunch\r\n"},
			excludes: []string{"[**SPAM**]"},
		},
		{
			name:     "empty message",
			cfg:      config.SMTPConfig{},
			sender:   "alice@example.net",
			raw:      "Subject: \r\n\r\n",
			contains: []string{"X-Spam-Status: false\r\nX-Spam-Label: empty\r\n"},
		},
		{
			name:     "whitelisted sender",
			cfg:      config.SMTPConfig{ModifySubject: true, BlockSpam: true},
			sender:   "promo@mail.example.com",
			raw:      spamEmail,
			domains:  []string{"example.com"},
			contains: []string{"X-Spam-Status: false\r\nX-Spam-Label: whitelisted\r\n", "Subject: Claim your prize\r\n"},
			excludes: []string{"[**SPAM**]"},
		},
		{
			name:   "custom headers",
			cfg:    config.SMTPConfig{StatusHeader: "X-Filter-Spam", LabelHeader: "X-Filter-Label", ModelHeader: "X-Filter-Model"},
			sender: "alice@example.net",
			raw:    hamEmail,
			contains: []string{
				"X-Filter-Spam: false\r\n",
				"X-Filter-Label: not-spam\r\n",
				"X-Filter-Model: test-model\r\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestPostfixFilter(t, tt.cfg, tt.domains...)
			res, err := f.filterMessage(context.Background(), tt.sender, []byte(tt.raw))
			if err != nil {
				t.Fatalf("filterMessage error: %v", err)
			}
			if res.reject {
				t.Fatal("message unexpectedly rejected")
			}
			out := string(res.message)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("filtered message missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("filtered message contains %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestPostfixFilter_ClassificationErrorDelivers(t *testing.T) {
	logger := zaptest.NewLogger(t)
	svc := newTestServiceWithVectorizer(t, &keywordVectorizer{err: errVectorizer})
	f := NewPostfixFilter(svc, nil, logger, config.SMTPConfig{BlockSpam: true})

	res, err := f.filterMessage(context.Background(), "promo@example.com", []byte(spamEmail))
	if err != nil {
		t.Fatalf("filterMessage error: %v", err)
	}
	if res.reject {
		t.Fatal("message rejected despite classification error")
	}
	out := string(res.message)
	if !strings.Contains(out, "X-Spam-Status: false\r\n") {
		t.Errorf("expected not-spam status:\n%s", out)
	}
	if !strings.Contains(out, "X-Spam-Analysis-Error: failed to vectorize message: vectorizer unavailable\r\n") {
		t.Errorf("expected analysis error header:\n%s", out)
	}
}

func TestSMTPSession_Data(t *testing.T) {
	f := newTestPostfixFilter(t, config.SMTPConfig{PostfixEnabled: true})

	var gotSender string
	var gotRecipients []string
	var gotData []byte
	f.reinject = func(sender string, recipients []string, data []byte) error {
		gotSender, gotRecipients, gotData = sender, recipients, data
		return nil
	}

	s := &smtpSession{filter: f}
	if err := s.Mail("promo@example.com", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Rcpt("bob@example.org", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Data(strings.NewReader(spamEmail)); err != nil {
		t.Fatalf("Data returned error: %v", err)
	}

	if gotSender != "promo@example.com" {
		t.Errorf("reinjected sender = %q", gotSender)
	}
	if len(gotRecipients) != 1 || gotRecipients[0] != "bob@example.org" {
		t.Errorf("reinjected recipients = %v", gotRecipients)
	}
	if !strings.HasPrefix(string(gotData), "X-Spam-Status: true\r\n") {
		t.Errorf("reinjected message lacks verdict headers:\n%s", gotData)
	}

	s.Reset()
	if s.sender != "" || len(s.recipients) != 0 {
		t.Error("Reset did not clear the envelope")
	}
}

func TestSMTPSession_DataRejectsSpam(t *testing.T) {
	f := newTestPostfixFilter(t, config.SMTPConfig{PostfixEnabled: true, BlockSpam: true})
	reinjected := false
	f.reinject = func(string, []string, []byte) error {
		reinjected = true
		return nil
	}

	s := &smtpSession{filter: f}
	_ = s.Mail("promo@example.com", nil)
	_ = s.Rcpt("bob@example.org", nil)

	err := s.Data(strings.NewReader(spamEmail))
	var smtpErr *smtp.SMTPError
	if !errors.As(err, &smtpErr) || smtpErr.Code != 550 {
		t.Fatalf("expected 550 SMTP error, got %v", err)
	}
	if reinjected {
		t.Error("rejected message was reinjected")
	}
}

func TestReplaceSubject(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		subject string
		want    string
	}{
		{
			name:    "folded subject",
			header:  "From: a@example.com\r\nSubject: first\r\n second\r\nTo: b@example.com\r\n",
			subject: "new",
			want:    "From: a@example.com\r\nSubject: new\r\nTo: b@example.com\r\n",
		},
		{
			name:    "missing subject",
			header:  "From: a@example.com\r\n",
			subject: "new",
			want:    "From: a@example.com\r\nSubject: new\r\n",
		},
		{
			name:    "non-ascii subject",
			header:  "subject: old\r\n",
			subject: "café",
			want:    "Subject: =?utf-8?q?caf=C3=A9?=\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(replaceSubject([]byte(tt.header), tt.subject))
			if got != tt.want {
				t.Errorf("replaceSubject = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitMessage(t *testing.T) {
	header, body := splitMessage([]byte("A: 1\nB: 2\n\nbody\n"))
	if string(header) != "A: 1\nB: 2\n" || string(body) != "body\n" {
		t.Errorf("splitMessage = %q, %q", header, body)
	}

	header, body = splitMessage([]byte("A: 1\r\n"))
	if string(header) != "A: 1\r\n" || body != nil {
		t.Errorf("splitMessage without body = %q, %q", header, body)
	}
}

func TestMessageText(t *testing.T) {
	if got := messageText(" Hello ", "World\r\n"); got != "Hello\n\nWorld" {
		t.Errorf("messageText = %q", got)
	}
	if got := messageText("", "World"); got != "World" {
		t.Errorf("messageText without subject = %q", got)
	}
	if got := messageText("Hello", " "); got != "Hello" {
		t.Errorf("messageText without body = %q", got)
	}
}
