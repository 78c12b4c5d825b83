// Package newsletter provides a minimal client for the Beehiiv v2 posts API.
package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const baseURL = "https://api.beehiiv.com/v2"

// Client is a minimal Beehiiv API client bound to one publication.
type Client struct {
	apiKey        string
	publicationID string
	http          *http.Client
}

// NewClient returns a Beehiiv client for the given publication.
func NewClient(apiKey, publicationID string) *Client {
	return &Client{
		apiKey:        apiKey,
		publicationID: publicationID,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

// postRequest is the body of a create-post call. Only the fields we set are
// declared.
type postRequest struct {
	Title           string   `json:"title"`
	BodyContent     string   `json:"body_content"`
	Status          string   `json:"status"`
	EmailSubject    string   `json:"email_subject_line,omitempty"`
	PlatformTargets []string `json:"platform,omitempty"`
}

// PostResult holds the fields we need back from a created post.
type PostResult struct {
	Data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}

// PublishPost creates a confirmed email post with the given subject and
// HTML body.
func (c *Client) PublishPost(ctx context.Context, subject, htmlBody string) (*PostResult, error) {
	if c.apiKey == "" || c.publicationID == "" {
		return nil, fmt.Errorf("beehiiv: missing API key or publication id")
	}

	reqBody := postRequest{
		Title:           subject,
		BodyContent:     htmlBody,
		Status:          "confirmed",
		EmailSubject:    subject,
		PlatformTargets: []string{"email"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("beehiiv: marshal post: %w", err)
	}

	url := fmt.Sprintf("%s/publications/%s/posts", baseURL, c.publicationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("beehiiv: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("POST %s: HTTP %d: %s", url, resp.StatusCode, string(body))
	}

	var result PostResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("beehiiv: decode response: %w", err)
	}
	return &result, nil
}
