package filter

import (
	"net/mail"
	"strings"
	"testing"
)

func TestDecodeEncodedHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Lunch tomorrow", "Lunch tomorrow"},
		{"utf-8 base64", "=?UTF-8?B?RnJlZSBwcml6ZQ==?=", "Free prize"},
		{"latin-1 quoted", "=?ISO-8859-1?Q?caf=E9?=", "café"},
		{"mixed", "Re: =?utf-8?q?caf=C3=A9?= menu", "Re: café menu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeEncodedHeader(tt.input)
			if err != nil {
				t.Fatalf("decodeEncodedHeader(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("decodeEncodedHeader(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func readMessage(t *testing.T, raw string) *mail.Message {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	return msg
}

func TestExtractTextFromMessage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "no content type",
			raw:  "Subject: hi\r\n\r\nSee you at noon\r\n",
			want: "See you at noon\r\n",
		},
		{
			name: "quoted printable",
			raw: "Content-Type: text/plain; charset=utf-8\r\n" +
				"Content-Transfer-Encoding: quoted-printable\r\n\r\n" +
				"caf=C3=A9 at no=\r\non\r\n",
			want: "café at noon\r\n",
		},
		{
			name: "base64 latin-1",
			raw: "Content-Type: text/plain; charset=iso-8859-1\r\n" +
				"Content-Transfer-Encoding: base64\r\n\r\n" +
				"Y2Fm6Q==\r\n",
			want: "café",
		},
		{
			name: "html only",
			raw:  "Content-Type: text/html\r\n\r\n<p>hello</p>\r\n",
			want: "",
		},
		{
			name: "multipart alternative",
			raw: "Content-Type: multipart/alternative; boundary=XYZ\r\n\r\n" +
				"--XYZ\r\n" +
				"Content-Type: text/plain; charset=utf-8\r\n" +
				"Content-Transfer-Encoding: base64\r\n\r\n" +
				"Q2xhaW0geW91ciBm\r\ncmVlIHByaXplIHRvZGF5\r\n" +
				"--XYZ\r\n" +
				"Content-Type: text/html\r\n\r\n" +
				"<p>Claim your free prize today</p>\r\n" +
				"--XYZ--\r\n",
			want: "Claim your free prize today\n",
		},
		{
			name: "nested multipart with attachment",
			raw: "Content-Type: multipart/mixed; boundary=outer\r\n\r\n" +
				"--outer\r\n" +
				"Content-Type: multipart/alternative; boundary=inner\r\n\r\n" +
				"--inner\r\n" +
				"Content-Type: text/plain\r\n\r\n" +
				"body text\r\n" +
				"--inner--\r\n" +
				"--outer\r\n" +
				"Content-Type: text/plain\r\n" +
				"Content-Disposition: attachment; filename=notes.txt\r\n\r\n" +
				"attached text\r\n" +
				"--outer--\r\n",
			want: "body text\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractTextFromMessage(readMessage(t, tt.raw))
			if err != nil {
				t.Fatalf("extractTextFromMessage error: %v", err)
			}
			if got != tt.want {
				t.Errorf("extractTextFromMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
