package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	gomail "gopkg.in/mail.v2"

	"movieshelf/storage"
)

// EmailNotifier sends an HTML digest of a user's collection after a
// scheduled website export.
type EmailNotifier struct {
	smtpHost       string
	smtpPort       int
	senderEmail    string
	senderPass     string
	recipientEmail string
	htmlTemplate   *template.Template
}

// EmailConfig contains configuration for email notifications
type EmailConfig struct {
	SMTPHost       string
	SMTPPort       int
	SenderEmail    string
	SenderPassword string
	RecipientEmail string
}

// GetEmailConfigFromEnv reads SMTP settings from environment variables.
func GetEmailConfigFromEnv() EmailConfig {
	port := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			port = parsed
		}
	}

	return EmailConfig{
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       port,
		SenderEmail:    os.Getenv("SENDER_EMAIL"),
		SenderPassword: os.Getenv("SENDER_PASSWORD"),
		RecipientEmail: os.Getenv("RECIPIENT_EMAIL"),
	}
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(config EmailConfig) (*EmailNotifier, error) {
	tmpl, err := template.New("digest").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Movie Shelf - Collection Digest</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; }
        h1 { color: #e50914; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
        th { background-color: #f4f4f4; text-align: left; padding: 10px; }
        td { padding: 10px; border-bottom: 1px solid #ddd; }
        .count { font-weight: bold; color: #e50914; }
        .footer { font-size: 12px; color: #666; margin-top: 50px; text-align: center; }
    </style>
</head>
<body>
    <h1>Movie Shelf - {{.UserName}}'s Collection</h1>
    <p>Website regenerated on {{.Date}}. The collection holds <span class="count">{{.Count}}</span> movie(s).</p>

    {{if .Movies}}
    <table>
        <tr>
            <th>Title</th>
            <th>Year</th>
            <th>Rating</th>
        </tr>
        {{range .Movies}}
        <tr>
            <td>{{.Title}}</td>
            <td>{{if .Year}}{{.Year}}{{else}}-{{end}}</td>
            <td>{{.Rating}}/10</td>
        </tr>
        {{end}}
    </table>
    {{else}}
    <p>The collection is empty.</p>
    {{end}}

    <div class="footer">Sent by the Movie Shelf export job.</div>
</body>
</html>
`)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %v", err)
	}

	return &EmailNotifier{
		smtpHost:       config.SMTPHost,
		smtpPort:       config.SMTPPort,
		senderEmail:    config.SenderEmail,
		senderPass:     config.SenderPassword,
		recipientEmail: config.RecipientEmail,
		htmlTemplate:   tmpl,
	}, nil
}

type digestData struct {
	UserName string
	Date     string
	Count    int
	Movies   []storage.Movie
}

// SendCollectionDigest emails one user's collection summary. Transient SMTP
// failures are retried with exponential backoff; the metadata fetch path has
// no retry, this is the only place the application backs off.
func (n *EmailNotifier) SendCollectionDigest(ctx context.Context, user storage.User, movies []storage.Movie) error {
	var body bytes.Buffer
	err := n.htmlTemplate.Execute(&body, digestData{
		UserName: user.Name,
		Date:     time.Now().Format("2006-01-02 15:04"),
		Count:    len(movies),
		Movies:   movies,
	})
	if err != nil {
		return fmt.Errorf("failed to render email body: %v", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.senderEmail)
	msg.SetHeader("To", n.recipientEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Movie Shelf digest for %s", user.Name))
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(n.smtpHost, n.smtpPort, n.senderEmail, n.senderPass)

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := dialer.DialAndSend(msg); err != nil {
			log.Printf("Email send failed, will retry: %v", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
