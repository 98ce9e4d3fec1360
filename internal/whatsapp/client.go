package whatsapp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// Sender is the outbound half of a messaging session: everything the relay
// pipeline needs to deliver an order.
type Sender interface {
	SendText(ctx context.Context, to, text string) error
	SendImage(ctx context.Context, to, filePath, fileName, caption string) error
}

// Client talks to a wppconnect-server style REST gateway. The gateway owns
// the actual browser-automation session; this client only drives it.
type Client struct {
	http    *resty.Client
	session string
	log     *slog.Logger
}

// NewClient creates a gateway client for the named session.
func NewClient(gatewayURL, session, token string, log *slog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(gatewayURL).
			SetAuthToken(token).
			SetTimeout(60 * time.Second).
			SetRetryCount(0),
		session: session,
		log:     log,
	}
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	IsGroup bool   `json:"isGroup"`
}

type sendFileRequest struct {
	Phone    string `json:"phone"`
	Base64   string `json:"base64"`
	Filename string `json:"filename"`
	Caption  string `json:"caption"`
	IsGroup  bool   `json:"isGroup"`
}

type startSessionRequest struct {
	WaitQRCode  bool   `json:"waitQrCode"`
	BrowserPath string `json:"browserPath,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type gatewayError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SendText delivers a plain text message to the given chat identifier.
func (c *Client) SendText(ctx context.Context, to, text string) error {
	c.log.Debug("sending text message", "session", c.session, "to", to)

	var gwErr gatewayError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{Phone: to, Message: text}).
		SetError(&gwErr).
		Post(fmt.Sprintf("/api/%s/send-message", c.session))
	if err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send text: gateway returned %d: %s", resp.StatusCode(), gwErr.Message)
	}
	return nil
}

// SendImage reads the file at filePath and delivers it as an image message
// with the given display name and caption.
func (c *Client) SendImage(ctx context.Context, to, filePath, fileName, caption string) error {
	c.log.Debug("sending image", "session", c.session, "to", to, "file", filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("send image: read %s: %w", filePath, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(filePath))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	encoded := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	var gwErr gatewayError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendFileRequest{Phone: to, Base64: encoded, Filename: fileName, Caption: caption}).
		SetError(&gwErr).
		Post(fmt.Sprintf("/api/%s/send-file-base64", c.session))
	if err != nil {
		return fmt.Errorf("send image: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send image: gateway returned %d: %s", resp.StatusCode(), gwErr.Message)
	}
	return nil
}

// StartSession asks the gateway to bring the session up. browserPath is
// forwarded as the browser executable override when non-empty.
func (c *Client) StartSession(ctx context.Context, browserPath string) error {
	var gwErr gatewayError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(startSessionRequest{WaitQRCode: false, BrowserPath: browserPath}).
		SetError(&gwErr).
		Post(fmt.Sprintf("/api/%s/start-session", c.session))
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("start session: gateway returned %d: %s", resp.StatusCode(), gwErr.Message)
	}
	return nil
}

// Status reports the gateway's view of the session, e.g. "CONNECTED".
func (c *Client) Status(ctx context.Context) (string, error) {
	var status statusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&status).
		Get(fmt.Sprintf("/api/%s/status-session", c.session))
	if err != nil {
		return "", fmt.Errorf("session status: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("session status: gateway returned %d", resp.StatusCode())
	}
	return status.Status, nil
}
