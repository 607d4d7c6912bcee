package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/whitelist"
	"go.uber.org/zap"
)

const (
	defaultSubjectPrefix = "[**SPAM**] "
	whitelistedLabel     = "whitelisted"
)

// PostfixFilter implements a Postfix content filter
type PostfixFilter struct {
	service   *core.ClassifierService
	whitelist *whitelist.Checker
	logger    *zap.Logger
	cfg       config.SMTPConfig
	server    *smtp.Server
	// reinject delivers the filtered message; it defaults to sendToPostfix
	reinject func(sender string, recipients []string, data []byte) error
}

// NewPostfixFilter creates a new Postfix content filter
func NewPostfixFilter(
	service *core.ClassifierService,
	checker *whitelist.Checker,
	logger *zap.Logger,
	cfg config.SMTPConfig,
) *PostfixFilter {
	// If subject prefix is not set but modify subject is enabled, use default prefix
	if cfg.SubjectPrefix == "" && cfg.ModifySubject {
		cfg.SubjectPrefix = defaultSubjectPrefix
	}
	if cfg.StatusHeader == "" {
		cfg.StatusHeader = "X-Spam-Status"
	}
	if cfg.LabelHeader == "" {
		cfg.LabelHeader = "X-Spam-Label"
	}
	if cfg.ModelHeader == "" {
		cfg.ModelHeader = "X-Spam-Model"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if checker == nil {
		checker = whitelist.NewChecker(nil, logger)
	}

	f := &PostfixFilter{
		service:   service,
		whitelist: checker,
		logger:    logger,
		cfg:       cfg,
	}
	f.reinject = f.sendToPostfix
	return f
}

// Start starts the Postfix filter service
func (f *PostfixFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = f.cfg.MaxMessageBytes
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("Postfix filter starting", zap.String("address", f.cfg.ListenAddress))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the Postfix filter service
func (f *PostfixFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessMessage classifies a raw message without any mail handling.
// This is mainly used for testing or direct API calls.
func (f *PostfixFilter) ProcessMessage(ctx context.Context, message string) (*core.Verdict, error) {
	return f.service.Classify(ctx, message)
}

// filterResult is the outcome of running one email through the filter
type filterResult struct {
	verdict     *core.Verdict
	whitelisted bool
	analysisErr error
	reject      bool
	message     []byte
}

// filterMessage classifies a raw email and builds the message to reinject
func (f *PostfixFilter) filterMessage(ctx context.Context, sender string, rawData []byte) (*filterResult, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	res := &filterResult{}
	subject, err := decodeEncodedHeader(msg.Header.Get("Subject"))
	if err != nil {
		// If decoding fails, use the original subject
		subject = msg.Header.Get("Subject")
	}

	if f.whitelist.IsWhitelisted(sender) {
		f.logger.Info("Skipping classification for whitelisted sender",
			zap.String("sender_domain", whitelist.SenderDomain(sender)))
		res.whitelisted = true
	} else {
		body, err := extractTextFromMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text content: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()

		// Classification failures still deliver the message, marked as not spam
		res.verdict, res.analysisErr = f.service.Classify(ctx, messageText(subject, body))
		if res.analysisErr != nil {
			f.logger.Error("Failed to classify email",
				zap.Error(res.analysisErr),
				zap.String("sender_domain", whitelist.SenderDomain(sender)))
		}
	}

	isSpam := res.verdict != nil && res.verdict.IsSpam()
	if isSpam && f.cfg.BlockSpam {
		res.reject = true
		return res, nil
	}

	var out bytes.Buffer
	f.writeVerdictHeaders(&out, res)

	header, body := splitMessage(rawData)
	if isSpam && f.cfg.ModifySubject && !strings.HasPrefix(subject, f.cfg.SubjectPrefix) {
		header = replaceSubject(header, f.cfg.SubjectPrefix+subject)
	}
	out.Write(header)
	out.WriteString("\r\n")
	out.Write(body)

	res.message = out.Bytes()
	return res, nil
}

func (f *PostfixFilter) writeVerdictHeaders(w io.Writer, res *filterResult) {
	isSpam := res.verdict != nil && res.verdict.IsSpam()

	label := string(core.StateNotSpam)
	switch {
	case res.whitelisted:
		label = whitelistedLabel
	case res.verdict != nil:
		label = string(res.verdict.State())
	}

	fmt.Fprintf(w, "%s: %t\r\n", f.cfg.StatusHeader, isSpam)
	fmt.Fprintf(w, "%s: %s\r\n", f.cfg.LabelHeader, label)
	fmt.Fprintf(w, "%s: %s\r\n", f.cfg.ModelHeader, f.service.ModelID())

	if res.analysisErr != nil {
		fmt.Fprintf(w, "X-Spam-Analysis-Error: %s\r\n", sanitizeHeaderValue(res.analysisErr.Error()))
	}
}

// messageText is the text classified for an email
func messageText(subject, body string) string {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	switch {
	case subject == "":
		return body
	case body == "":
		return subject
	}
	return subject + "\n\n" + body
}

// splitMessage splits a raw message into its header block, including the
// final line break, and its body.
func splitMessage(raw []byte) (header, body []byte) {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return raw[:i+2], raw[i+4:]
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return raw[:i+1], raw[i+2:]
	}
	return raw, nil
}

// replaceSubject rewrites the Subject field of a raw header block,
// appending one when the message has none.
func replaceSubject(header []byte, subject string) []byte {
	encoded := "Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n"

	var out bytes.Buffer
	replaced := false
	skipping := false
	for _, line := range bytes.SplitAfter(header, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if skipping && (line[0] == ' ' || line[0] == '\t') {
			continue // folded continuation of the old subject
		}
		skipping = false
		if !replaced && len(line) >= 8 && strings.EqualFold(string(line[:8]), "subject:") {
			out.WriteString(encoded)
			replaced = true
			skipping = true
			continue
		}
		out.Write(line)
	}
	if !replaced {
		out.WriteString(encoded)
	}
	return out.Bytes()
}

func sanitizeHeaderValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// sendToPostfix sends the processed email back to Postfix on the configured port using go-smtp
func (f *PostfixFilter) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := net.JoinHostPort(f.cfg.PostfixAddress, fmt.Sprint(f.cfg.PostfixPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			// Continue with other recipients even if one fails
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return errors.New("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The email has already been accepted
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *PostfixFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *PostfixFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data filters the email and hands it back to Postfix
func (s *smtpSession) Data(r io.Reader) error {
	f := s.filter

	rawData, err := io.ReadAll(r)
	if err != nil {
		f.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	res, err := f.filterMessage(context.Background(), s.sender, rawData)
	if err != nil {
		f.logger.Error("Failed to filter email", zap.Error(err))
		return err
	}

	senderDomain := whitelist.SenderDomain(s.sender)
	if res.reject {
		f.logger.Info("Rejecting spam email",
			zap.String("sender_domain", senderDomain),
			zap.String("processing_id", res.verdict.ProcessingID),
			zap.String("model", res.verdict.ModelUsed))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      "Rejected as spam",
		}
	}

	if f.cfg.PostfixEnabled {
		if err := f.reinject(s.sender, s.recipients, res.message); err != nil {
			f.logger.Error("Failed to send email back to Postfix",
				zap.Error(err),
				zap.String("sender_domain", senderDomain))
			return err
		}
	} else {
		f.logger.Warn("Postfix forwarding disabled, this is likely a misconfiguration")
	}

	fields := []zap.Field{
		zap.String("sender_domain", senderDomain),
		zap.Bool("whitelisted", res.whitelisted),
	}
	if res.verdict != nil {
		fields = append(fields,
			zap.String("state", string(res.verdict.State())),
			zap.Bool("cached", res.verdict.Cached),
			zap.String("processing_id", res.verdict.ProcessingID))
	}
	f.logger.Info("Processed email", fields...)

	return nil
}

// Logout handles SMTP logout (not needed for our filter)
func (s *smtpSession) Logout() error {
	return nil
}
