package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/tamralc/publora/configs"
)

// MediaService turns image references into URLs the platforms can fetch
// themselves. Stable https URLs pass through; inline payloads are decoded and
// uploaded to object storage under a session-scoped key. Every call creates a
// new object; there is no deduplication.
type MediaService interface {
	EnsurePublicURL(ctx context.Context, sessionID, ref string) (string, error)
}

type mediaService struct {
	uploader  ObjectUploader
	publicURL string
}

func NewMediaService(cfg config.Config, uploader ObjectUploader) MediaService {
	return &mediaService{
		uploader:  uploader,
		publicURL: strings.TrimRight(cfg.R2.PublicURL, "/"),
	}
}

// NeedsUpload reports whether a reference cannot be handed to the platforms
// as-is. Data URIs, blob/file URLs and local addresses all need re-hosting.
func NeedsUpload(ref string) bool {
	if strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "blob:") || strings.HasPrefix(ref, "file:") {
		return true
	}

	u, err := url.Parse(ref)
	if err != nil {
		return true
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return true
	}

	host := u.Hostname()
	return host == "" || host == "localhost" || host == "127.0.0.1"
}

func (s *mediaService) EnsurePublicURL(ctx context.Context, sessionID, ref string) (string, error) {
	if !NeedsUpload(ref) {
		return ref, nil
	}

	file, err := decodeDataURI(ref)
	if err != nil {
		return "", err
	}

	if !filetype.IsImage(file) {
		return "", errors.New("decoded payload is not an image")
	}

	kind, err := filetype.Match(file)
	if err != nil {
		return "", fmt.Errorf("unable to detect image type: %w", err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%d-%s", sessionID, time.Now().UnixMilli(), id)

	if err := s.uploader.Upload(ctx, key, file, kind.MIME.Value); err != nil {
		return "", fmt.Errorf("error uploading image: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}

// decodeDataURI extracts the base64 payload of a data URI. Other non-fetchable
// references (blob:, file:, local addresses) only exist inside the browser or
// on another host, so they are rejected here.
func decodeDataURI(ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, "data:") {
		return nil, fmt.Errorf("image reference %q cannot be fetched server-side", truncateRef(ref))
	}

	_, payload, found := strings.Cut(ref, ",")
	if !found {
		return nil, errors.New("malformed data URI")
	}

	file, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 payload: %w", err)
	}

	return file, nil
}

func truncateRef(ref string) string {
	if len(ref) > 64 {
		return ref[:64] + "..."
	}
	return ref
}
