package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"studio/internal/config"
	"studio/internal/logutil"
	"studio/internal/models"
)

const (
	platformLinkedIn  = "linkedin"
	maxLinkedInRunes  = 3000
	msgLinkedInPosted = "Successfully posted to LinkedIn!"
)

// LinkedInPublisher shares text posts through the UGC Posts API.
type LinkedInPublisher struct {
	apiURL      string
	accessToken string
	authorURN   string
	transport   Transport
}

func NewLinkedInPublisher(cfg config.LinkedInConfig, transport Transport) (*LinkedInPublisher, error) {
	var missing []string
	if cfg.AccessToken == "" {
		missing = append(missing, "LINKEDIN_ACCESS_TOKEN")
	}
	if cfg.AuthorURN == "" {
		missing = append(missing, "LINKEDIN_AUTHOR_URN")
	}
	if len(missing) > 0 {
		return nil, MissingConfigError{Provider: platformLinkedIn, Variables: missing}
	}
	return &LinkedInPublisher{
		apiURL:      cfg.APIURL,
		accessToken: cfg.AccessToken,
		authorURN:   cfg.AuthorURN,
		transport:   transport,
	}, nil
}

type ugcShareContent struct {
	ShareCommentary struct {
		Text string `json:"text"`
	} `json:"shareCommentary"`
	ShareMediaCategory string `json:"shareMediaCategory"`
}

type ugcPost struct {
	Author          string `json:"author"`
	LifecycleState  string `json:"lifecycleState"`
	SpecificContent struct {
		ShareContent ugcShareContent `json:"com.linkedin.ugc.ShareContent"`
	} `json:"specificContent"`
	Visibility struct {
		MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
	} `json:"visibility"`
}

// Post publishes req.Text as a public share. The result reuses the
// PublishResult shape.
func (p *LinkedInPublisher) Post(ctx context.Context, req models.LinkedInPostRequest) models.PublishResult {
	postID, err := p.post(ctx, req)
	if err != nil {
		var (
			validation ValidationError
			platform   *PlatformError
		)
		switch {
		case errors.As(err, &validation):
			return failure(http.StatusBadRequest, validation.Reason)
		case errors.As(err, &platform):
			return failure(platform.StatusCode, platform.Message)
		default:
			logutil.Errorf("linkedin post failed: %v", err)
			return failure(http.StatusInternalServerError, err.Error())
		}
	}
	return models.PublishResult{Success: true, Message: msgLinkedInPosted, PostID: postID, StatusCode: http.StatusOK}
}

func (p *LinkedInPublisher) post(ctx context.Context, req models.LinkedInPostRequest) (string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", ValidationError{Reason: "Post text is required"}
	}
	if len([]rune(text)) > maxLinkedInRunes {
		return "", ValidationError{Reason: fmt.Sprintf("Post exceeds %d characters", maxLinkedInRunes)}
	}

	var body ugcPost
	body.Author = p.authorURN
	body.LifecycleState = "PUBLISHED"
	body.SpecificContent.ShareContent.ShareCommentary.Text = text
	body.SpecificContent.ShareContent.ShareMediaCategory = "NONE"
	body.Visibility.MemberNetworkVisibility = "PUBLIC"

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode ugc post: %w", err)
	}

	resp, err := p.transport.Send(ctx, TransportRequest{
		URL:    p.apiURL + "/ugcPosts",
		Method: http.MethodPost,
		Headers: map[string]string{
			"Authorization":             "Bearer " + p.accessToken,
			"Content-Type":              "application/json",
			"X-Restli-Protocol-Version": "2.0.0",
		},
		Body: string(payload),
	})
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		logutil.Errorf("linkedin returned %d: %s", resp.StatusCode, resp.Body)
		msg := "Failed to post to LinkedIn"
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal([]byte(resp.Body), &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return "", &PlatformError{Platform: platformLinkedIn, StatusCode: resp.StatusCode, Message: msg}
	}

	if id := resp.Header.Get("X-Restli-Id"); id != "" {
		return id, nil
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &created); err != nil {
		return "", fmt.Errorf("decode ugc post response: %w", err)
	}
	return created.ID, nil
}
