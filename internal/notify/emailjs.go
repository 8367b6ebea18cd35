package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"noteswift/internal/apperr"
)

const defaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJS sends mail through the EmailJS REST API. The template is expected
// to reference to_email, subject and message parameters.
type EmailJS struct {
	ServiceID  string
	TemplateID string
	PublicKey  string

	Endpoint string       // defaults to the EmailJS API
	Client   *http.Client // defaults to a 10s-timeout client
}

func NewEmailJS(serviceID, templateID, publicKey string) *EmailJS {
	return &EmailJS{
		ServiceID:  serviceID,
		TemplateID: templateID,
		PublicKey:  publicKey,
	}
}

func (e *EmailJS) Deliver(ctx context.Context, destination, subject, body string) error {
	payload := map[string]any{
		"service_id":  e.ServiceID,
		"template_id": e.TemplateID,
		"user_id":     e.PublicKey,
		"template_params": map[string]string{
			"to_email": destination,
			"subject":  subject,
			"message":  body,
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := e.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := e.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: emailjs status %d", apperr.ErrDeliveryFailed, resp.StatusCode)
	}
	return nil
}
