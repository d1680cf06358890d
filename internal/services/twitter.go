package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/michimani/gotwi"
	"github.com/michimani/gotwi/media/upload"
	uploadtypes "github.com/michimani/gotwi/media/upload/types"
	"github.com/michimani/gotwi/resources"
	"github.com/michimani/gotwi/tweet/managetweet"
	managetweettypes "github.com/michimani/gotwi/tweet/managetweet/types"

	"studio/internal/config"
	"studio/internal/logutil"
	"studio/internal/models"
)

const (
	platformTwitter = "twitter"
	maxTweetRunes   = 280

	msgTweetPosted       = "Successfully posted to Twitter!"
	msgTweetTextRequired = "Tweet text is required"
)

var twitterHTTPTimeout = 30 * time.Second

// tweetAPI is the part of the X API the publisher uses.
type tweetAPI interface {
	UploadImage(ctx context.Context, data []byte) (string, error)
	CreateTweet(ctx context.Context, text string, mediaIDs []string) (string, error)
}

// TwitterPublisher posts text with an optional image to X.
type TwitterPublisher struct {
	api tweetAPI
}

// NewTwitterPublisher builds a gotwi client with OAuth 1.0a user context.
func NewTwitterPublisher(cfg config.TwitterConfig) (*TwitterPublisher, error) {
	var missing []string
	if cfg.ConsumerKey == "" {
		missing = append(missing, "TWITTER_CONSUMER_KEY")
	}
	if cfg.ConsumerSecret == "" {
		missing = append(missing, "TWITTER_CONSUMER_SECRET")
	}
	if cfg.AccessToken == "" {
		missing = append(missing, "TWITTER_ACCESS_TOKEN")
	}
	if cfg.AccessTokenSecret == "" {
		missing = append(missing, "TWITTER_ACCESS_TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return nil, MissingConfigError{Provider: platformTwitter, Variables: missing}
	}

	client, err := gotwi.NewClient(&gotwi.NewClientInput{
		HTTPClient:           &http.Client{Timeout: twitterHTTPTimeout},
		AuthenticationMethod: gotwi.AuthenMethodOAuth1UserContext,
		OAuthToken:           cfg.AccessToken,
		OAuthTokenSecret:     cfg.AccessTokenSecret,
		APIKey:               cfg.ConsumerKey,
		APIKeySecret:         cfg.ConsumerSecret,
		Debug:                logutil.Verbose(),
	})
	if err != nil {
		return nil, fmt.Errorf("create X client: %w", err)
	}
	if !client.IsReady() {
		return nil, fmt.Errorf("twitter client not ready")
	}
	return &TwitterPublisher{api: &gotwiAPI{client: client}}, nil
}

// Post validates, uploads the first image if any, and creates the tweet.
func (p *TwitterPublisher) Post(ctx context.Context, req models.TwitterPostRequest) models.TwitterPostResult {
	tweetID, err := p.post(ctx, req)
	if err != nil {
		var validation ValidationError
		if errors.As(err, &validation) {
			return models.TwitterPostResult{Message: validation.Reason, StatusCode: http.StatusBadRequest}
		}
		logutil.Errorf("twitter post failed: %v", err)
		return models.TwitterPostResult{Message: err.Error(), StatusCode: http.StatusInternalServerError}
	}
	return models.TwitterPostResult{Success: true, Message: msgTweetPosted, TweetID: tweetID, StatusCode: http.StatusOK}
}

func (p *TwitterPublisher) post(ctx context.Context, req models.TwitterPostRequest) (string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", ValidationError{Reason: msgTweetTextRequired}
	}
	if n := utf8.RuneCountInString(text); n > maxTweetRunes {
		return "", ValidationError{Reason: fmt.Sprintf("Tweet is %d characters; the limit is %d", n, maxTweetRunes)}
	}

	var mediaIDs []string
	if len(req.Images) > 0 {
		data, err := base64.StdEncoding.DecodeString(StripDataURL(req.Images[0]))
		if err != nil {
			return "", ValidationError{Reason: "Image must be base64 encoded"}
		}
		mediaID, err := p.api.UploadImage(ctx, data)
		if err != nil {
			return "", err
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	return p.api.CreateTweet(ctx, text, mediaIDs)
}

type gotwiAPI struct {
	client *gotwi.Client
}

func (a *gotwiAPI) CreateTweet(ctx context.Context, text string, mediaIDs []string) (string, error) {
	input := &managetweettypes.CreateInput{Text: gotwi.String(text)}
	if len(mediaIDs) > 0 {
		input.Media = &managetweettypes.CreateInputMedia{MediaIDs: mediaIDs}
	}
	logutil.Debugf("posting tweet: media_count=%d", len(mediaIDs))
	res, err := managetweet.Create(ctx, a.client, input)
	if err != nil {
		return "", fmt.Errorf("post tweet: %w", unwrapGotwiError(err))
	}
	return gotwi.StringValue(res.Data.ID), nil
}

func (a *gotwiAPI) UploadImage(ctx context.Context, data []byte) (string, error) {
	mediaType, category, err := resolveMediaType(data)
	if err != nil {
		return "", err
	}

	initRes, err := upload.Initialize(ctx, a.client, &uploadtypes.InitializeInput{
		MediaType:     mediaType,
		TotalBytes:    len(data),
		MediaCategory: category,
	})
	if err != nil {
		return "", fmt.Errorf("initialize upload: %w", unwrapGotwiError(err))
	}
	if err := partialError(initRes.Errors); err != nil {
		return "", fmt.Errorf("initialize upload: %w", err)
	}
	mediaID := initRes.Data.MediaID

	appendIn := &uploadtypes.AppendInput{
		MediaID:      mediaID,
		Media:        bytes.NewReader(data),
		SegmentIndex: 0,
	}
	appendIn.GenerateBoundary()
	appendRes, err := upload.Append(ctx, a.client, appendIn)
	if err != nil {
		return "", fmt.Errorf("append upload: %w", unwrapGotwiError(err))
	}
	if err := partialError(appendRes.Errors); err != nil {
		return "", fmt.Errorf("append upload: %w", err)
	}

	finalizeRes, err := upload.Finalize(ctx, a.client, &uploadtypes.FinalizeInput{MediaID: mediaID})
	if err != nil {
		return "", fmt.Errorf("finalize upload: %w", unwrapGotwiError(err))
	}
	if err := partialError(finalizeRes.Errors); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	switch state := finalizeRes.Data.ProcessingInfo.State; state {
	case "", resources.ProcessingInfoStateSucceeded:
	case resources.ProcessingInfoStateInProgress, resources.ProcessingInfoStatePending:
		wait := time.Duration(finalizeRes.Data.ProcessingInfo.CheckAfterSecs) * time.Second
		if err := Sleep(ctx, wait); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("media processing failed: state=%s", state)
	}

	logutil.Debugf("media uploaded: media_id=%s", mediaID)
	return mediaID, nil
}

func resolveMediaType(data []byte) (uploadtypes.MediaType, uploadtypes.MediaCategory, error) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return uploadtypes.MediaTypeJPEG, uploadtypes.MediaCategoryTweetImage, nil
	case "image/png":
		return uploadtypes.MediaTypePNG, uploadtypes.MediaCategoryTweetImage, nil
	case "image/gif":
		return uploadtypes.MediaTypeGIF, uploadtypes.MediaCategoryTweetGIF, nil
	case "image/webp":
		return uploadtypes.MediaTypeWebP, uploadtypes.MediaCategoryTweetImage, nil
	}
	return "", "", ValidationError{Reason: "Unsupported image type for Twitter"}
}

func partialError(partials []resources.PartialError) error {
	if len(partials) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(partials))
	for _, pe := range partials {
		switch {
		case pe.Detail != nil && *pe.Detail != "":
			msgs = append(msgs, *pe.Detail)
		case pe.Title != nil && *pe.Title != "":
			msgs = append(msgs, *pe.Title)
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "unknown error")
	}
	return errors.New(strings.Join(msgs, "; "))
}

func unwrapGotwiError(err error) error {
	var gwErr *gotwi.GotwiError
	if !errors.As(err, &gwErr) || gwErr == nil {
		return err
	}
	parts := make([]string, 0, 4)
	if gwErr.Title != "" {
		parts = append(parts, gwErr.Title)
	}
	if gwErr.Detail != "" {
		parts = append(parts, gwErr.Detail)
	}
	for _, apiErr := range gwErr.APIErrors {
		if apiErr.Message != "" {
			parts = append(parts, apiErr.Message)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "X API request failed")
	}
	return errors.New(strings.Join(parts, "; "))
}
