package services

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.inputs = append(f.inputs, input)
	body, _ := io.ReadAll(input.Body)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{Key: input.Key}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestS3HostUploadsDecodedImage(t *testing.T) {
	up := &fakeUploader{}
	host := newS3Host("studio-images", "/posts/", "https://cdn.example.com/", up)

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
	hosted, err := host.Upload(context.Background(), payload)
	require.NoError(t, err)

	require.Len(t, up.inputs, 1)
	in := up.inputs[0]
	assert.Equal(t, "studio-images", aws.ToString(in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(in.ContentType))
	assert.True(t, strings.HasPrefix(aws.ToString(in.Key), "posts/"))
	assert.True(t, strings.HasSuffix(aws.ToString(in.Key), ".png"))
	assert.Equal(t, pngHeader, up.bodies[0])
	assert.Equal(t, "https://cdn.example.com/"+aws.ToString(in.Key), hosted.URL)
}

func TestS3HostRejectsBadPayloads(t *testing.T) {
	up := &fakeUploader{}
	host := newS3Host("b", "", "https://cdn.example.com", up)

	_, err := host.Upload(context.Background(), "not base64!!")
	assert.ErrorIs(t, err, ErrImageUpload)

	_, err = host.Upload(context.Background(), base64.StdEncoding.EncodeToString([]byte("plain text")))
	assert.ErrorIs(t, err, ErrImageUpload)
	assert.Empty(t, up.inputs)
}

func TestS3HostUploadFailure(t *testing.T) {
	up := &fakeUploader{err: errors.New("access denied")}
	host := newS3Host("b", "", "https://cdn.example.com", up)

	_, err := host.Upload(context.Background(), base64.StdEncoding.EncodeToString(pngHeader))
	assert.ErrorIs(t, err, ErrImageUpload)
}
