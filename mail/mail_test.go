package mail

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dishdash-api/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T, handler http.HandlerFunc) *Mailer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m := New(config.MailConfig{
		Enabled:  true,
		APIKey:   "key-test",
		Domain:   "mail.test",
		FromName: "DishDash",
	}, zerolog.Nop())
	m.apiBase = srv.URL
	return m
}

func TestSendPostsMailgunForm(t *testing.T) {
	var gotPath, gotTo, gotTemplate, gotCode string
	var gotUser, gotPass string

	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTo = r.FormValue("to")
		gotTemplate = r.FormValue("template")
		gotCode = r.FormValue("v:code")
		w.WriteHeader(http.StatusOK)
	})

	err := m.send("user@test.com", "Verify your email", "verify-email", map[string]string{"code": "abc123"})
	require.NoError(t, err)

	assert.Equal(t, "/mail.test/messages", gotPath)
	assert.Equal(t, "api", gotUser)
	assert.Equal(t, "key-test", gotPass)
	assert.Equal(t, "user@test.com", gotTo)
	assert.Equal(t, "verify-email", gotTemplate)
	assert.Equal(t, "abc123", gotCode)
}

func TestSendSurfacesAPIErrors(t *testing.T) {
	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	err := m.send("user@test.com", "s", "t", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestDisabledMailerDropsQuietly(t *testing.T) {
	m := New(config.MailConfig{Enabled: false}, zerolog.Nop())

	// No server behind it; must not attempt a request.
	assert.NoError(t, m.send("user@test.com", "s", "t", nil))
}
