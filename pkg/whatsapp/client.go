package whatsapp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	BaseURL    string
	Username   string
	Password   string
	Path       string
	MaxRetries int
	Backoff    time.Duration
	HTTPClient *http.Client
}

type SendMessageRequest struct {
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	IsForwarded bool   `json:"is_forwarded"`
	Duration    int    `json:"duration"`
}

type SendMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"message_id"`
		Status    string `json:"status"`
	} `json:"data"`
}

func NewClient(baseURL, username, password, path string, maxRetries int) *Client {
	if maxRetries < 1 {
		maxRetries = 3
	}
	return &Client{
		BaseURL:    baseURL,
		Username:   username,
		Password:   password,
		Path:       path,
		MaxRetries: maxRetries,
		Backoff:    500 * time.Millisecond,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Convert phone number from 06xxx local format to 2376xxx format
func (c *Client) convertPhoneNumber(phone string) string {
	if strings.HasPrefix(phone, "06") {
		return "2376" + phone[2:]
	}
	return phone
}

// Send message to an individual number via WhatsApp
func (c *Client) SendMessage(phone, message string) (*SendMessageResponse, error) {
	convertedPhone := c.convertPhoneNumber(phone)
	return c.send(convertedPhone+"@s.whatsapp.net", message)
}

// Send message to a group by its JID
func (c *Client) SendGroupMessage(groupJID, message string) (*SendMessageResponse, error) {
	if !strings.HasSuffix(groupJID, "@g.us") {
		groupJID += "@g.us"
	}
	return c.send(groupJID, message)
}

func (c *Client) send(to, message string) (*SendMessageResponse, error) {
	requestData := SendMessageRequest{
		Phone:   to,
		Message: message,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := fmt.Sprintf("%s/%s/send/message", c.BaseURL, c.Path)

	body, err := c.doWithRetry(url, jsonData)
	if err != nil {
		return nil, err
	}

	var response SendMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &response, nil
}

// doWithRetry posts with bounded retries and exponential backoff.
// Transient failures (network errors, 5xx) are retried up to
// MaxRetries; client errors (4xx) never are.
func (c *Client) doWithRetry(url string, jsonData []byte) ([]byte, error) {
	backoff := c.Backoff
	var lastErr error

	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		body, retryable, err := c.doOnce(url, jsonData)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.MaxRetries, lastErr)
}

func (c *Client) doOnce(url string, jsonData []byte) (body []byte, retryable bool, err error) {
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	// Create Basic Auth token
	auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: %s", resp.Status)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("client error: %s", resp.Status)
	}
	return body, false, nil
}

// Send simple text message
func (c *Client) SendTextMessage(phone, message string) error {
	_, err := c.SendMessage(phone, message)
	return err
}
