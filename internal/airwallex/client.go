package airwallex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sync"
	"time"
)

type Config struct {
	BaseURL        string
	ClientID       string
	APIKey         string
	RequestTimeout time.Duration
}

// Client talks to the payments provider's REST API. Bearer tokens from the
// login endpoint are cached and refreshed shortly before they expire; all
// other calls go through doAuthenticated which handles that transparently.
type Client struct {
	baseURL    string
	clientID   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    config.BaseURL,
		clientID:   config.ClientID,
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// bearerToken returns a valid token, logging in again when the cached one
// is within a minute of expiry.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(time.Minute).Before(c.tokenExpiry) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/authentication/login", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("provider login returned status %d", resp.StatusCode)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}

	c.token = auth.Token
	c.tokenExpiry = auth.ExpiresAt
	if c.tokenExpiry.IsZero() {
		c.tokenExpiry = time.Now().Add(25 * time.Minute)
	}

	c.logger.Debug("provider token refreshed", "expires_at", c.tokenExpiry)
	return c.token, nil
}

func (c *Client) doAuthenticated(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// CreateAccount opens a connected account for a newly registered company
// and returns the provider's account ID.
func (c *Client) CreateAccount(ctx context.Context, companyName, email, phone string) (string, error) {
	payload := createAccountRequest{
		AccountDetails: accountDetails{
			BusinessDetails: businessDetails{
				BusinessName: companyName,
				PhoneNumber:  phone,
			},
		},
		CustomerAgreements: customerAgreements{
			AgreedToDataUsage:          true,
			AgreedToTermsAndConditions: true,
		},
		PrimaryContact: primaryContact{Email: email},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal account request: %w", err)
	}

	resp, err := c.doAuthenticated(ctx, http.MethodPost, "/api/v1/accounts/create",
		bytes.NewBuffer(jsonData), "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("account creation returned status %d", resp.StatusCode)
	}

	var account createAccountResponse
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return "", fmt.Errorf("failed to decode account response: %w", err)
	}

	c.logger.Info("provider account created",
		"account_id", account.ID,
		"status", account.Status)

	return account.ID, nil
}

// UploadFile sends a document (KYC, logos) to the provider's file store.
func (c *Client) UploadFile(ctx context.Context, fileName string, content io.Reader) (*FileDescriptor, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	resp, err := c.doAuthenticated(ctx, http.MethodPost, "/api/v1/files/upload",
		&buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("file upload returned status %d", resp.StatusCode)
	}

	var descriptor FileDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&descriptor); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	c.logger.Info("file uploaded to provider", "file_id", descriptor.FileID, "file_name", fileName)
	return &descriptor, nil
}

// GetDownloadLink asks the provider for a short-lived URL to a stored file.
func (c *Client) GetDownloadLink(ctx context.Context, fileID string) (*DownloadLink, error) {
	resp, err := c.doAuthenticated(ctx, http.MethodGet,
		"/api/v1/files/"+fileID+"/download_link", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("file %s not found at provider", fileID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download link request returned status %d", resp.StatusCode)
	}

	var link DownloadLink
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return nil, fmt.Errorf("failed to decode download link response: %w", err)
	}
	if link.FileID == "" {
		link.FileID = fileID
	}
	return &link, nil
}

// GetDownloadLinks resolves links for a batch of file IDs. The provider has
// no batch endpoint, so the lookups run one by one; the first failure aborts
// the batch.
func (c *Client) GetDownloadLinks(ctx context.Context, fileIDs []string) ([]*DownloadLink, error) {
	links := make([]*DownloadLink, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		link, err := c.GetDownloadLink(ctx, fileID)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}
