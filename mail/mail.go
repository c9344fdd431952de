// Package mail sends transactional email through the Mailgun messages API.
// Delivery is fire-and-forget: failures are logged, never surfaced to the
// caller.
package mail

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"dishdash-api/config"

	"github.com/rs/zerolog"
)

const defaultAPIBase = "https://api.mailgun.net/v3"

// Sender dispatches templated email asynchronously.
type Sender interface {
	SendVerificationEmail(to, code string)
}

type Mailer struct {
	apiBase  string
	apiKey   string
	domain   string
	fromName string
	enabled  bool
	client   *http.Client
	logger   zerolog.Logger
}

func New(cfg config.MailConfig, logger zerolog.Logger) *Mailer {
	return &Mailer{
		apiBase:  defaultAPIBase,
		apiKey:   cfg.APIKey,
		domain:   cfg.Domain,
		fromName: cfg.FromName,
		enabled:  cfg.Enabled,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger.With().Str("component", "mailer").Logger(),
	}
}

// SendVerificationEmail dispatches the email-verification template in the
// background.
func (m *Mailer) SendVerificationEmail(to, code string) {
	go func() {
		if err := m.send(to, "Verify your email", "verify-email", map[string]string{
			"code":     code,
			"username": to,
		}); err != nil {
			m.logger.Warn().Err(err).Str("to", to).Msg("failed to send verification email")
			return
		}
		m.logger.Info().Str("to", to).Msg("verification email sent")
	}()
}

func (m *Mailer) send(to, subject, template string, vars map[string]string) error {
	if !m.enabled {
		m.logger.Debug().Str("to", to).Str("template", template).Msg("mail disabled, dropping message")
		return nil
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	_ = form.WriteField("from", fmt.Sprintf("%s <mailgun@%s>", m.fromName, m.domain))
	_ = form.WriteField("to", to)
	_ = form.WriteField("subject", subject)
	_ = form.WriteField("template", template)
	for key, value := range vars {
		_ = form.WriteField("v:"+key, value)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to build mail form: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", m.apiBase, m.domain)
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.SetBasicAuth("api", m.apiKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailgun request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mailgun returned %d: %s", resp.StatusCode, detail)
	}

	return nil
}
