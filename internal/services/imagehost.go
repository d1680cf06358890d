package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"studio/internal/logutil"
	"studio/internal/models"
)

// ImageHost turns a raw image payload into a URL the target platform's
// servers can fetch.
type ImageHost interface {
	Upload(ctx context.Context, payload string) (models.HostedImage, error)
}

var dataURLPrefix = regexp.MustCompile(`^data:image/[A-Za-z0-9.+-]+;base64,`)

// StripDataURL removes a leading data:image/<type>;base64, prefix.
func StripDataURL(payload string) string {
	return dataURLPrefix.ReplaceAllString(payload, "")
}

// ImgBBHost uploads base64 images to an ImgBB-compatible endpoint.
type ImgBBHost struct {
	apiKey    string
	uploadURL string
	transport Transport
}

func NewImgBBHost(apiKey, uploadURL string, transport Transport) *ImgBBHost {
	return &ImgBBHost{apiKey: apiKey, uploadURL: uploadURL, transport: transport}
}

type imgbbResponse struct {
	Data struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Success bool `json:"success"`
}

// Upload posts the payload as a form field. Any non-200 answer, malformed
// body or missing URL yields ErrImageUpload; the provider detail only goes to
// the log.
func (h *ImgBBHost) Upload(ctx context.Context, payload string) (models.HostedImage, error) {
	if h.apiKey == "" {
		logutil.Errorf("image host API key not configured")
		return models.HostedImage{}, fmt.Errorf("%w: %w", ErrImageUpload, ErrImageHostNotConfigured)
	}

	form := url.Values{}
	form.Set("key", h.apiKey)
	form.Set("image", StripDataURL(payload))

	resp, err := h.transport.Send(ctx, TransportRequest{
		URL:     h.uploadURL,
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Body:    form.Encode(),
	})
	if err != nil {
		return models.HostedImage{}, err
	}

	if resp.StatusCode != http.StatusOK {
		logutil.Errorf("image host returned %d: %s", resp.StatusCode, resp.Body)
		return models.HostedImage{}, uploadError("status %d", resp.StatusCode)
	}

	var parsed imgbbResponse
	if err := json.Unmarshal([]byte(resp.Body), &parsed); err != nil {
		logutil.Errorf("image host response not JSON: %v", err)
		return models.HostedImage{}, uploadError("decode response: %v", err)
	}

	// display_url is served from a host the Graph API fetches reliably.
	hosted := parsed.Data.DisplayURL
	if hosted == "" {
		hosted = parsed.Data.URL
	}
	if hosted == "" {
		logutil.Errorf("image host response missing url: %s", resp.Body)
		return models.HostedImage{}, uploadError("response missing url")
	}

	logutil.Debugf("image hosted at %s", hosted)
	return models.HostedImage{URL: hosted}, nil
}
