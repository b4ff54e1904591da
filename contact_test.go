package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMailer struct {
	sent    []string
	replyTo string
	fail    bool
}

func (m *stubMailer) Send(ctx context.Context, replyTo, subject, text string) error {
	if m.fail {
		return errors.New("provider down")
	}
	m.replyTo = replyTo
	m.sent = append(m.sent, subject+"\n"+text)
	return nil
}

// fakeTurnstile serves the verification endpoint with a fixed outcome.
func fakeTurnstile(t *testing.T, success bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.Form.Get("response"))
		json.NewEncoder(w).Encode(map[string]any{"success": success})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func contactBody(t *testing.T) *bytes.Buffer {
	b, err := json.Marshal(map[string]string{
		"name":           "Max Mustermann",
		"email":          "max@example.com",
		"subject":        "feedback",
		"message":        "Great shop!",
		"turnstileToken": "tok",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func TestContactRelaysMessage(t *testing.T) {
	r := setupTestApp(t)
	appCfg.TurnstileVerifyURL = fakeTurnstile(t, true).URL
	m := &stubMailer{}
	mailer = m

	rec := performRequest(r, http.MethodPost, "/contact", contactBody(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "true")

	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0], "My Shop - FEEDBACK")
	assert.Contains(t, m.sent[0], "Great shop!")
	assert.Equal(t, "max@example.com", m.replyTo)
}

func TestContactRejectsFailedChallenge(t *testing.T) {
	r := setupTestApp(t)
	appCfg.TurnstileVerifyURL = fakeTurnstile(t, false).URL
	m := &stubMailer{}
	mailer = m

	rec := performRequest(r, http.MethodPost, "/contact", contactBody(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Security check failed")
	assert.Empty(t, m.sent)
}

func TestContactWithoutReceiver(t *testing.T) {
	r := setupTestApp(t)
	appCfg.TurnstileVerifyURL = fakeTurnstile(t, true).URL
	mailer = nil

	rec := performRequest(r, http.MethodPost, "/contact", contactBody(t))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "configuration error")
}

func TestContactProviderFailure(t *testing.T) {
	r := setupTestApp(t)
	appCfg.TurnstileVerifyURL = fakeTurnstile(t, true).URL
	mailer = &stubMailer{fail: true}

	rec := performRequest(r, http.MethodPost, "/contact", contactBody(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to send email")
}

func TestContactValidation(t *testing.T) {
	r := setupTestApp(t)

	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"no name", map[string]string{"email": "a@b.co", "subject": "general", "message": "hi", "turnstileToken": "t"}, "name is required"},
		{"bad subject", map[string]string{"name": "A", "email": "a@b.co", "subject": "spam", "message": "hi", "turnstileToken": "t"}, "Subject"},
		{"no message", map[string]string{"name": "A", "email": "a@b.co", "subject": "general", "turnstileToken": "t"}, "Message is required"},
		{"no token", map[string]string{"name": "A", "email": "a@b.co", "subject": "general", "message": "hi"}, "Verification token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := json.Marshal(tc.body)
			rec := performRequest(r, http.MethodPost, "/contact", bytes.NewBuffer(b))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}
