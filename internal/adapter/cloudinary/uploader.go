// Package cloudinary uploads media to the Cloudinary REST API using signed
// upload requests. Files arrive as data URIs straight from multipart form
// submissions and are posted as-is; Cloudinary decodes them server side.
package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Variable so tests can point it at an httptest server.
// The %s is the cloud name. The auto resource type lets Cloudinary detect
// images vs videos from the payload.
var uploadURLFormat = "https://api.cloudinary.com/v1_1/%s/auto/upload"

// Uploader posts images and videos to Cloudinary and returns their delivery
// URLs.
type Uploader struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	httpClient *http.Client
	log        *slog.Logger

	now func() time.Time
}

// New creates a Cloudinary uploader. folder is the target asset folder;
// every upload lands under it.
func New(cloudName, apiKey, apiSecret, folder string, logger *slog.Logger) *Uploader {
	return &Uploader{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		folder:     folder,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("adapter", "cloudinary"),
		now:        time.Now,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type uploadError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends a single data URI to Cloudinary and returns the secure
// delivery URL. filename, when known, names the stored asset; a data URI
// carries no name of its own, so use_filename alone would be a no-op.
// A single attempt only; the caller decides what a failed upload means for
// the request.
func (u *Uploader) Upload(ctx context.Context, dataURI, filename string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", fmt.Errorf("cloudinary: not a data uri")
	}

	timestamp := strconv.FormatInt(u.now().Unix(), 10)

	// Signed params, everything except file and api_key.
	params := map[string]string{
		"folder":       u.folder,
		"invalidate":   "true",
		"timestamp":    timestamp,
		"use_filename": "true",
	}
	if filename != "" {
		params["filename_override"] = filename
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("file", dataURI)
	form.Set("api_key", u.apiKey)
	form.Set("signature", u.sign(params))

	endpoint := fmt.Sprintf(uploadURLFormat, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("cloudinary: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		u.log.ErrorContext(ctx, "cloudinary upload failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("cloudinary: upload failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cloudinary: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp uploadError
		msg := "unexpected status"
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		u.log.ErrorContext(ctx, "cloudinary upload failed",
			slog.Int("status", resp.StatusCode),
			slog.String("error", msg))
		return "", fmt.Errorf("cloudinary: upload failed: %s (status %d)", msg, resp.StatusCode)
	}

	var uploaded uploadResponse
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return "", fmt.Errorf("cloudinary: invalid response: %w", err)
	}
	if uploaded.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: response missing secure_url")
	}

	u.log.DebugContext(ctx, "cloudinary upload ok", slog.String("public_id", uploaded.PublicID))

	return uploaded.SecureURL, nil
}

// sign computes the Cloudinary request signature: the SHA-1 hex digest of
// the signed params serialized as key=value pairs, sorted by key, joined
// with &, with the API secret appended.
func (u *Uploader) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	h := sha1.Sum([]byte(strings.Join(pairs, "&") + u.apiSecret))
	return hex.EncodeToString(h[:])
}
