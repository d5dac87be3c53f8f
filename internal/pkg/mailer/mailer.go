// Package mailer delivers rendered emails over SMTP, or logs them when no
// transport is configured.
package mailer

import (
	"context"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	// Headers are extra headers such as List-Unsubscribe.
	Headers map[string]string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Build renders msg as an RFC 5322 message with a multipart/alternative body.
func Build(from string, msg Message) (string, error) {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	for k, v := range msg.Headers {
		b.WriteString(k + ": " + v + "\r\n")
	}

	boundary := "newznepal-" + uuid.NewString()
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary))

	parts := []struct{ contentType, body string }{
		{"text/plain", msg.Text},
		{"text/html", msg.HTML},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: " + p.contentType + "; charset=UTF-8\r\n")
		b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")

		qp := quotedprintable.NewWriter(&b)
		if _, err := qp.Write([]byte(p.body)); err != nil {
			return "", err
		}
		if err := qp.Close(); err != nil {
			return "", err
		}
		b.WriteString("\r\n")
	}
	b.WriteString("--" + boundary + "--\r\n")

	return b.String(), nil
}

// envelopeAddress extracts the bare address from "Name <addr>" forms.
func envelopeAddress(s string) (string, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", s, err)
	}
	return addr.Address, nil
}
