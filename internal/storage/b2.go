package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fieldline/fieldline/internal/config"
	obsmetrics "github.com/fieldline/fieldline/internal/observability/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	authorizeURL = "https://api.backblazeb2.com/b2api/v2/b2_authorize_account"
	// B2 auth tokens are valid for 24h; refresh a little early.
	tokenTTL = 23 * time.Hour
)

type authState struct {
	Token       string
	APIURL      string
	DownloadURL string
	acquiredAt  time.Time
}

// B2Client talks to the Backblaze B2 native API. The account authorization
// token is cached until near expiry, and concurrent refreshes are coalesced
// into a single in-flight call.
type B2Client struct {
	httpClient *http.Client
	log        *zap.Logger
	metrics    *obsmetrics.Metrics

	keyID      string
	appKey     string
	bucketID   string
	bucketName string

	authorizeOverride string

	mu    sync.RWMutex
	auth  *authState
	group singleflight.Group
}

// NewB2Client builds a client from the storage configuration. The endpoint
// override is used by tests to point at a local server.
func NewB2Client(cfg config.StorageConfig, log *zap.Logger, metrics *obsmetrics.Metrics) *B2Client {
	return &B2Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log.Named("storage.b2"),
		metrics:    metrics,
		keyID:      cfg.KeyID,
		appKey:     cfg.ApplicationKey,
		bucketID:   cfg.BucketID,
		bucketName: cfg.BucketName,
	}
}

// WithAuthorizeURL overrides the account authorization endpoint. Used in tests.
func (c *B2Client) WithAuthorizeURL(raw string) *B2Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authorizeOverride = raw
	return c
}

func (c *B2Client) authorize(ctx context.Context) (*authState, error) {
	c.mu.RLock()
	auth := c.auth
	c.mu.RUnlock()
	if auth != nil && time.Since(auth.acquiredAt) < tokenTTL {
		return auth, nil
	}

	// Coalesce concurrent refreshes into one request.
	result, err, _ := c.group.Do("authorize", func() (any, error) {
		c.mu.RLock()
		cached := c.auth
		c.mu.RUnlock()
		if cached != nil && time.Since(cached.acquiredAt) < tokenTTL {
			return cached, nil
		}
		fresh, err := c.fetchAuth(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.auth = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*authState), nil
}

func (c *B2Client) fetchAuth(ctx context.Context) (*authState, error) {
	if c.keyID == "" || c.appKey == "" {
		return nil, ErrNotConfigured
	}

	endpoint := authorizeURL
	if c.authorizeOverride != "" {
		endpoint = c.authorizeOverride
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.appKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}

	var body struct {
		AuthorizationToken string `json:"authorizationToken"`
		APIURL             string `json:"apiUrl"`
		DownloadURL        string `json:"downloadUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	return &authState{
		Token:       body.AuthorizationToken,
		APIURL:      body.APIURL,
		DownloadURL: body.DownloadURL,
		acquiredAt:  time.Now(),
	}, nil
}

// Upload stores data under name and returns its public download URL.
func (c *B2Client) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	auth, err := c.authorize(ctx)
	if err != nil {
		c.recordOp(ctx, "upload", "error")
		return "", err
	}

	uploadURL, uploadToken, err := c.getUploadURL(ctx, auth)
	if err != nil {
		c.recordOp(ctx, "upload", "error")
		return "", err
	}

	sum := sha1.Sum(data)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", uploadToken)
	req.Header.Set("X-Bz-File-Name", url.PathEscape(name))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Bz-Content-Sha1", hex.EncodeToString(sum[:]))
	req.ContentLength = int64(len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordOp(ctx, "upload", "error")
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recordOp(ctx, "upload", "error")
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	c.recordOp(ctx, "upload", "ok")
	return fmt.Sprintf("%s/file/%s/%s", auth.DownloadURL, c.bucketName, name), nil
}

func (c *B2Client) getUploadURL(ctx context.Context, auth *authState) (string, string, error) {
	payload, err := json.Marshal(map[string]string{"bucketId": c.bucketID})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		auth.APIURL+"/b2api/v2/b2_get_upload_url", bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", auth.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: get upload url status %d", ErrUploadFailed, resp.StatusCode)
	}

	var body struct {
		UploadURL          string `json:"uploadUrl"`
		AuthorizationToken string `json:"authorizationToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return body.UploadURL, body.AuthorizationToken, nil
}

// Delete removes the newest version of the file behind a download URL.
func (c *B2Client) Delete(ctx context.Context, fileURL string) error {
	name, err := c.fileNameFromURL(fileURL)
	if err != nil {
		return err
	}

	auth, err := c.authorize(ctx)
	if err != nil {
		c.recordOp(ctx, "delete", "error")
		return err
	}

	fileID, err := c.findFileID(ctx, auth, name)
	if err != nil {
		c.recordOp(ctx, "delete", "error")
		return err
	}

	payload, err := json.Marshal(map[string]string{
		"fileName": name,
		"fileId":   fileID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		auth.APIURL+"/b2api/v2/b2_delete_file_version", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", auth.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordOp(ctx, "delete", "error")
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recordOp(ctx, "delete", "error")
		return fmt.Errorf("%w: status %d", ErrDeleteFailed, resp.StatusCode)
	}

	c.recordOp(ctx, "delete", "ok")
	return nil
}

func (c *B2Client) findFileID(ctx context.Context, auth *authState, name string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"bucketId":      c.bucketID,
		"startFileName": name,
		"maxFileCount":  1,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		auth.APIURL+"/b2api/v2/b2_list_file_names", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", auth.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: list status %d", ErrDeleteFailed, resp.StatusCode)
	}

	var body struct {
		Files []struct {
			FileID   string `json:"fileId"`
			FileName string `json:"fileName"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	for _, file := range body.Files {
		if file.FileName == name {
			return file.FileID, nil
		}
	}
	return "", ErrFileNotFound
}

func (c *B2Client) fileNameFromURL(fileURL string) (string, error) {
	marker := "/file/" + c.bucketName + "/"
	idx := strings.Index(fileURL, marker)
	if idx < 0 {
		// Accept a bare object key as well.
		if fileURL != "" && !strings.Contains(fileURL, "://") {
			return fileURL, nil
		}
		return "", ErrFileNotFound
	}
	name, err := url.PathUnescape(fileURL[idx+len(marker):])
	if err != nil {
		return "", ErrFileNotFound
	}
	return name, nil
}

func (c *B2Client) recordOp(ctx context.Context, operation, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordStorageOperation(ctx, operation, outcome)
	}
}
