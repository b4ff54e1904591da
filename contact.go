package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/resend/resend-go/v2"
)

// Mailer relays a contact-form message. Behind an interface so tests can
// substitute a stub for the Resend client.
type Mailer interface {
	Send(ctx context.Context, replyTo, subject, text string) error
}

type resendMailer struct {
	client   *resend.Client
	receiver string
}

func newResendMailer(apiKey, receiver string) *resendMailer {
	return &resendMailer{client: resend.NewClient(apiKey), receiver: receiver}
}

func (m *resendMailer) Send(ctx context.Context, replyTo, subject, text string) error {
	params := &resend.SendEmailRequest{
		From:    "My Shop <onboarding@resend.dev>",
		To:      []string{m.receiver},
		ReplyTo: replyTo,
		Subject: subject,
		Text:    text,
	}
	_, err := m.client.Emails.SendWithContext(ctx, params)
	return err
}

type turnstileResult struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// verifyTurnstile posts the client response token to the configured
// verification endpoint and reports whether the challenge passed.
func verifyTurnstile(ctx context.Context, verifyURL, secret, response string) (bool, error) {
	form := url.Values{"secret": {secret}, "response": {response}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	var outcome turnstileResult
	if err := json.NewDecoder(res.Body).Decode(&outcome); err != nil {
		return false, err
	}
	if !outcome.Success {
		log.Printf("turnstile verification failed: %v", outcome.ErrorCodes)
	}
	return outcome.Success, nil
}

func contactHandler(c *gin.Context) {
	var req contactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errValidation(err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		c.Error(err)
		return
	}

	ok, err := verifyTurnstile(c.Request.Context(), appCfg.TurnstileVerifyURL, appCfg.TurnstileSecret, req.TurnstileToken)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Security check failed. Please try again."})
		return
	}

	if mailer == nil {
		log.Print("contact relay misconfigured: no mail receiver")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server configuration error. Please contact support."})
		return
	}

	text := fmt.Sprintf("New Contact Form Submission\n\nName: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s",
		req.Name, req.Email, req.Subject, req.Message)
	subject := fmt.Sprintf("My Shop - %s", strings.ToUpper(req.Subject))

	if err := mailer.Send(c.Request.Context(), req.Email, subject, text); err != nil {
		log.Printf("mail relay error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to send email. Please check the recipient address or try again later."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
