package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"studio/internal/logutil"
	"studio/internal/models"
)

const platformInstagram = "instagram"

// GraphClient talks to the Instagram Graph API container endpoints.
type GraphClient struct {
	baseURL     string
	accessToken string
	accountID   string
	transport   Transport
}

// NewGraphClient builds a client for {graphURL}/{version}.
func NewGraphClient(graphURL, version, accessToken, accountID string, transport Transport) *GraphClient {
	return &GraphClient{
		baseURL:     fmt.Sprintf("%s/%s", graphURL, version),
		accessToken: accessToken,
		accountID:   accountID,
		transport:   transport,
	}
}

// CreateContainer registers imageURL and caption as an unpublished post.
func (c *GraphClient) CreateContainer(ctx context.Context, imageURL, caption string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"image_url":    imageURL,
		"caption":      caption,
		"access_token": c.accessToken,
	})
	if err != nil {
		return "", fmt.Errorf("encode container request: %w", err)
	}

	resp, err := c.postJSON(ctx, fmt.Sprintf("%s/%s/media", c.baseURL, c.accountID), payload)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", graphError(resp, "Failed to create media container")
	}

	var created models.InstagramMediaResponse
	if err := json.Unmarshal([]byte(resp.Body), &created); err != nil {
		return "", fmt.Errorf("decode container response: %w", err)
	}
	logutil.Infof("created media container %s", created.ID)
	return created.ID, nil
}

// ContainerStatus returns the container's status_code. ok is false when the
// check itself failed (non-200).
func (c *GraphClient) ContainerStatus(ctx context.Context, containerID string) (models.ContainerStatus, bool, error) {
	q := url.Values{}
	q.Set("fields", "status_code")
	q.Set("access_token", c.accessToken)

	resp, err := c.transport.Send(ctx, TransportRequest{
		URL:    fmt.Sprintf("%s/%s?%s", c.baseURL, containerID, q.Encode()),
		Method: http.MethodGet,
	})
	if err != nil {
		return "", false, err
	}
	if resp.StatusCode != http.StatusOK {
		logutil.Warnf("status check for %s returned %d: %s", containerID, resp.StatusCode, resp.Body)
		return models.StatusUnknown, false, nil
	}

	var status models.InstagramMediaResponse
	if err := json.Unmarshal([]byte(resp.Body), &status); err != nil {
		return "", false, fmt.Errorf("decode status response: %w", err)
	}
	return models.ParseContainerStatus(status.StatusCode), true, nil
}

// PublishContainer turns a FINISHED container into a live post.
func (c *GraphClient) PublishContainer(ctx context.Context, containerID string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"creation_id":  containerID,
		"access_token": c.accessToken,
	})
	if err != nil {
		return "", fmt.Errorf("encode publish request: %w", err)
	}

	resp, err := c.postJSON(ctx, fmt.Sprintf("%s/%s/media_publish", c.baseURL, c.accountID), payload)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", graphError(resp, "Failed to publish media")
	}

	var published models.InstagramMediaResponse
	if err := json.Unmarshal([]byte(resp.Body), &published); err != nil {
		return "", fmt.Errorf("decode publish response: %w", err)
	}
	return published.ID, nil
}

func (c *GraphClient) postJSON(ctx context.Context, endpoint string, payload []byte) (*TransportResponse, error) {
	return c.transport.Send(ctx, TransportRequest{
		URL:     endpoint,
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    string(payload),
	})
}

// graphError surfaces error.message from a Graph API error body, or fallback.
func graphError(resp *TransportResponse, fallback string) error {
	logutil.Errorf("graph api returned %d: %s", resp.StatusCode, resp.Body)

	msg := fallback
	var body models.GraphErrorResponse
	if err := json.Unmarshal([]byte(resp.Body), &body); err == nil && body.Error.Message != "" {
		msg = body.Error.Message
	}
	return &PlatformError{Platform: platformInstagram, StatusCode: resp.StatusCode, Message: msg}
}
