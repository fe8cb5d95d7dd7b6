package oracle

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"strings"

	"newsbot/config"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// Client is the generative oracle consulted for scoring and topic
// classification. It is treated as an untrusted collaborator: responses
// are free text and go through the permissive parsers in this package.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Cohere implements Client on the Cohere Chat API.
type Cohere struct {
	client *cohereclient.Client
	model  string
}

// NewCohere creates a Cohere-backed oracle client. The HTTP client forces
// HTTP/1.1 to avoid HTTP/2 protocol errors seen against the Cohere API.
func NewCohere(apiKey, model string) *Cohere {
	httpClient := &http.Client{
		Timeout: config.OracleTimeout,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}

	return &Cohere{
		client: cohereclient.NewClient(
			cohereclient.WithToken(apiKey),
			cohereclient.WithHTTPClient(httpClient),
		),
		model: model,
	}
}

func (c *Cohere) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.OracleTimeout)
	defer cancel()

	model := c.model
	temperature := 0.0
	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:     prompt,
		Model:       &model,
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("oracle returned empty response")
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errors.New("oracle returned empty text")
	}
	return text, nil
}
