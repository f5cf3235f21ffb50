// Package storage provides the object storage client for event images.
//
// Images live in a hosted storage bucket behind a plain REST surface:
// upload and remove are authenticated calls, while reads go through a
// deterministic public URL that needs no round trip to compute.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config holds object storage configuration
type Config struct {
	BaseURL    string        // e.g. https://xyz.supabase.co
	Bucket     string        // e.g. event-images
	ServiceKey string        // bearer key for writes
	Timeout    time.Duration // per-request timeout
}

// Client implements ObjectStore against a Supabase-style storage API
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a new storage client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout, Transport: tr},
	}
}

// Upload stores an object under objectPath. Uploading to an existing
// path fails; callers always write under a fresh ObjectName.
func (c *Client) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.config.BaseURL, c.config.Bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("storage: build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.ServiceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage: upload %s: %w", objectPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage: upload %s: status %d: %s", objectPath, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Remove deletes an object. Removing a missing object is not an error;
// callers treat cleanup as best-effort and the end state is the same.
func (c *Client) Remove(ctx context.Context, objectPath string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.config.BaseURL, c.config.Bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("storage: build remove request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.ServiceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage: remove %s: %w", objectPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage: remove %s: status %d: %s", objectPath, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// PublicURL returns the public read URL for an object without any
// network round trip
func (c *Client) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.config.BaseURL, c.config.Bucket, objectPath)
}

// ObjectName builds a collision-resistant object name for an uploaded
// file: a random token plus the upload's unix milliseconds, keeping the
// original extension. Two uploads of the same filename never collide.
func ObjectName(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s-%d%s", uuid.NewString(), now.UnixMilli(), ext)
}

// ObjectPathFromURL recovers the object path from a public URL produced
// by PublicURL. Returns "" when the URL points elsewhere.
func (c *Client) ObjectPathFromURL(publicURL string) string {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", c.config.BaseURL, c.config.Bucket)
	if strings.HasPrefix(publicURL, prefix) {
		return strings.TrimPrefix(publicURL, prefix)
	}
	return ""
}
