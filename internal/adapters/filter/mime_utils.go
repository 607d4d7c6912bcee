package filter

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// maxMultipartDepth bounds recursion into nested multipart bodies
const maxMultipartDepth = 5

var headerDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

// charsetReader converts text in a named charset to UTF-8
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return input, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// decodeEncodedHeader decodes RFC 2047 encoded words in a header value
func decodeEncodedHeader(value string) (string, error) {
	return headerDecoder.DecodeHeader(value)
}

// extractTextFromMessage extracts the text/plain content of an email
// message, decoding transfer encodings and charsets. Messages without a
// text/plain part yield "".
func extractTextFromMessage(msg *mail.Message) (string, error) {
	return extractText(textproto.MIMEHeader(msg.Header), msg.Body, 0)
}

func extractText(header textproto.MIMEHeader, body io.Reader, depth int) (string, error) {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparsable Content-Type, treat the body as plain text
		mediaType, params = "text/plain", map[string]string{}
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		boundary, ok := params["boundary"]
		if !ok || depth >= maxMultipartDepth {
			return "", nil
		}
		return extractMultipart(multipart.NewReader(body, boundary), depth)
	case mediaType == "text/plain":
		return decodePart(header, params["charset"], body)
	default:
		// Skip other parts (attachments, html, etc.)
		return "", nil
	}
}

func extractMultipart(mr *multipart.Reader, depth int) (string, error) {
	var textContent bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Return what we have so far from a truncated message
			if textContent.Len() > 0 {
				return textContent.String(), nil
			}
			return "", fmt.Errorf("failed to read multipart body: %w", err)
		}

		if isAttachment(part.Header) {
			continue
		}

		// multipart.Reader decodes quoted-printable parts itself and drops
		// the header
		text, err := extractText(part.Header, part, depth+1)
		if err != nil {
			continue // Skip this part if we can't read it
		}
		if text != "" {
			textContent.WriteString(text)
			textContent.WriteString("\n")
		}
	}

	return textContent.String(), nil
}

func isAttachment(header textproto.MIMEHeader) bool {
	disposition, _, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	return err == nil && disposition == "attachment"
}

func decodePart(header textproto.MIMEHeader, charset string, body io.Reader) (string, error) {
	switch strings.ToLower(strings.TrimSpace(header.Get("Content-Transfer-Encoding"))) {
	case "base64":
		body = base64.NewDecoder(base64.StdEncoding, body)
	case "quoted-printable":
		body = quotedprintable.NewReader(body)
	}

	reader, err := charsetReader(charset, body)
	if err != nil {
		// Unknown charset, read the raw bytes
		reader = body
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
