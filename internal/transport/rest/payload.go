package rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/risinglab/rising-backend/internal/domain"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// files spill to temp files.
const maxUploadMemory = 32 << 20

const imagesField = "images"

// uploader stores a data URI remotely and returns a durable URL. filename is
// the client's original name for the asset, empty when unknown.
type uploader interface {
	Upload(ctx context.Context, dataURI, filename string) (string, error)
}

// Normalizer turns an incoming request body into a flat field record,
// regardless of whether it arrived as JSON, multipart, or a url-encoded
// form. Image files are pushed through the media uploader on the way; a
// failed upload is logged and dropped, never retried.
type Normalizer struct {
	media uploader
	log   *slog.Logger
}

// NewNormalizer creates a payload normalizer. media may be nil when no
// uploader is configured; file uploads are then dropped with a warning.
func NewNormalizer(media uploader, logger *slog.Logger) *Normalizer {
	return &Normalizer{media: media, log: logger.With("component", "payload")}
}

// Fields normalizes the request body. With strict set, only JSON, multipart
// and url-encoded bodies are accepted and anything else fails with
// domain.ErrUnsupportedMedia; otherwise an unrecognized content type falls
// back to JSON parsing, matching the create contract.
func (n *Normalizer) Fields(r *http.Request, strict bool) (domain.Fields, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil && contentType != "" {
		mediaType = contentType
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return n.fromMultipart(r)
	case mediaType == "application/x-www-form-urlencoded":
		return n.fromForm(r)
	case mediaType == "application/json" || !strict:
		return fromJSON(r)
	default:
		return nil, fmt.Errorf("content type %q: %w", mediaType, domain.ErrUnsupportedMedia)
	}
}

func fromJSON(r *http.Request) (domain.Fields, error) {
	var fields domain.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, domain.NewValidationError("body", "invalid JSON")
	}
	return fields, nil
}

func (n *Normalizer) fromMultipart(r *http.Request) (domain.Fields, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, domain.NewValidationError("body", "invalid multipart form")
	}

	fields := valuesToFields(r.MultipartForm.Value)

	submitted := len(r.MultipartForm.Value[imagesField]) + len(r.MultipartForm.File[imagesField])
	if submitted == 0 {
		return fields, nil
	}

	urls := n.resolveImageValues(r.Context(), r.MultipartForm.Value[imagesField])
	for _, fh := range r.MultipartForm.File[imagesField] {
		dataURI, err := fileToDataURI(fh)
		if err != nil {
			n.log.WarnContext(r.Context(), "skipping unreadable upload",
				slog.String("filename", fh.Filename),
				slog.String("error", err.Error()))
			continue
		}
		if url, ok := n.upload(r.Context(), dataURI, fh.Filename); ok {
			urls = append(urls, url)
		}
	}

	fields[imagesField] = urls
	return fields, nil
}

func (n *Normalizer) fromForm(r *http.Request) (domain.Fields, error) {
	if err := r.ParseForm(); err != nil {
		return nil, domain.NewValidationError("body", "invalid form body")
	}

	fields := valuesToFields(r.PostForm)

	if values := r.PostForm[imagesField]; len(values) > 0 {
		fields[imagesField] = n.resolveImageValues(r.Context(), values)
	}
	return fields, nil
}

// resolveImageValues handles image entries submitted as plain form values.
// Absolute URLs are already stored assets and are kept as-is; data URIs are
// uploaded; anything else is dropped.
func (n *Normalizer) resolveImageValues(ctx context.Context, values []string) []string {
	urls := []string{}
	for _, v := range values {
		switch {
		case strings.HasPrefix(v, "http://"), strings.HasPrefix(v, "https://"):
			urls = append(urls, v)
		case strings.HasPrefix(v, "data:"):
			if url, ok := n.upload(ctx, v, ""); ok {
				urls = append(urls, url)
			}
		default:
			n.log.WarnContext(ctx, "skipping unrecognized image value")
		}
	}
	return urls
}

func (n *Normalizer) upload(ctx context.Context, dataURI, filename string) (string, bool) {
	if n.media == nil {
		n.log.WarnContext(ctx, "no media uploader configured, dropping file")
		return "", false
	}
	url, err := n.media.Upload(ctx, dataURI, filename)
	if err != nil {
		n.log.WarnContext(ctx, "upload failed, dropping file", slog.String("error", err.Error()))
		return "", false
	}
	return url, true
}

// valuesToFields flattens form values into a field record. The images key is
// handled separately by the callers.
func valuesToFields(values map[string][]string) domain.Fields {
	fields := domain.Fields{}
	for key, vs := range values {
		if key == imagesField {
			continue
		}
		if len(vs) == 1 {
			fields[key] = vs[0]
		} else {
			fields[key] = vs
		}
	}
	return fields
}

// fileToDataURI reads an uploaded file into a base64 data URI the way the
// media service expects it.
func fileToDataURI(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(content)
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content), nil
}
