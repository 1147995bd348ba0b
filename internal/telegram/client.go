// Package telegram delivers messages and documents to Telegram channels via
// the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Client is a minimal Bot API client.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for a bot token.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultAPIBase,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithBase creates a Client against a custom API base URL (tests).
func NewClientWithBase(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// SendMessage posts text to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if c.token == "" || chatID == "" {
		return fmt.Errorf("missing bot token or chat id")
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, url.PathEscape(c.token))

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: "Markdown"})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram sendMessage http %d", resp.StatusCode)
	}
	return nil
}

// SendDocument uploads a file to a chat as a document attachment.
func (c *Client) SendDocument(ctx context.Context, chatID, path string) error {
	if c.token == "" || chatID == "" {
		return fmt.Errorf("missing bot token or chat id")
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendDocument", c.baseURL, url.PathEscape(c.token))

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", chatID); err != nil {
		return err
	}
	part, err := writer.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram sendDocument http %d", resp.StatusCode)
	}
	return nil
}
