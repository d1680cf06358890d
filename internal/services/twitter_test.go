package services

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"

	uploadtypes "github.com/michimani/gotwi/media/upload/types"
	"github.com/stretchr/testify/assert"

	"studio/internal/config"
	"studio/internal/models"
)

type fakeTweetAPI struct {
	uploads   [][]byte
	texts     []string
	mediaIDs  [][]string
	uploadErr error
	createErr error
}

func (f *fakeTweetAPI) UploadImage(ctx context.Context, data []byte) (string, error) {
	f.uploads = append(f.uploads, data)
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "media-1", nil
}

func (f *fakeTweetAPI) CreateTweet(ctx context.Context, text string, mediaIDs []string) (string, error) {
	f.texts = append(f.texts, text)
	f.mediaIDs = append(f.mediaIDs, mediaIDs)
	if f.createErr != nil {
		return "", f.createErr
	}
	return "tweet-1", nil
}

func TestTwitterPostTextOnly(t *testing.T) {
	api := &fakeTweetAPI{}
	res := (&TwitterPublisher{api: api}).Post(context.Background(), models.TwitterPostRequest{Text: "  shipping today  "})

	assert.True(t, res.Success)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "tweet-1", res.TweetID)
	assert.Equal(t, []string{"shipping today"}, api.texts)
	assert.Empty(t, api.uploads)
	assert.Nil(t, api.mediaIDs[0])
}

func TestTwitterPostWithImage(t *testing.T) {
	api := &fakeTweetAPI{}
	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
	res := (&TwitterPublisher{api: api}).Post(context.Background(), models.TwitterPostRequest{Text: "look", Images: []string{image}})

	assert.True(t, res.Success)
	assert.Equal(t, [][]byte{pngHeader}, api.uploads)
	assert.Equal(t, []string{"media-1"}, api.mediaIDs[0])
}

func TestTwitterPostValidation(t *testing.T) {
	tests := []struct {
		name string
		req  models.TwitterPostRequest
	}{
		{"empty", models.TwitterPostRequest{Text: " "}},
		{"too long", models.TwitterPostRequest{Text: strings.Repeat("é", maxTweetRunes+1)}},
		{"bad image", models.TwitterPostRequest{Text: "ok", Images: []string{"%%%"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeTweetAPI{}
			res := (&TwitterPublisher{api: api}).Post(context.Background(), tt.req)
			assert.False(t, res.Success)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.Empty(t, api.texts)
		})
	}
}

func TestTwitterPostExactLimitIsAccepted(t *testing.T) {
	api := &fakeTweetAPI{}
	res := (&TwitterPublisher{api: api}).Post(context.Background(), models.TwitterPostRequest{Text: strings.Repeat("é", maxTweetRunes)})
	assert.True(t, res.Success)
}

func TestTwitterPostAPIFailure(t *testing.T) {
	api := &fakeTweetAPI{createErr: errors.New("post tweet: duplicate content")}
	res := (&TwitterPublisher{api: api}).Post(context.Background(), models.TwitterPostRequest{Text: "again"})

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "post tweet: duplicate content", res.Message)
}

func TestNewTwitterPublisherMissingConfig(t *testing.T) {
	_, err := NewTwitterPublisher(config.TwitterConfig{ConsumerKey: "k"})

	var missing MissingConfigError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"TWITTER_CONSUMER_SECRET", "TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_TOKEN_SECRET"}, missing.Variables)
}

func TestResolveMediaType(t *testing.T) {
	mt, cat, err := resolveMediaType(pngHeader)
	assert.NoError(t, err)
	assert.Equal(t, uploadtypes.MediaTypePNG, mt)
	assert.Equal(t, uploadtypes.MediaCategoryTweetImage, cat)

	_, _, err = resolveMediaType([]byte("hello"))
	assert.Error(t, err)
}
