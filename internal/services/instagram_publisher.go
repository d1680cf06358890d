package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"studio/internal/logutil"
	"studio/internal/models"
)

// HostSettleDelay gives the image host's CDN time to make a fresh upload
// fetchable by the Graph API before the container is created.
const HostSettleDelay = 2 * time.Second

const (
	msgPublished        = "Successfully posted to Instagram!"
	msgCaptionRequired  = "Caption is required"
	msgImageRequired    = "Instagram requires an image for every post. Please generate or attach an image first."
	msgUploadFailed     = "Failed to upload image to hosting service. Please try again."
	msgProcessingFailed = "Media processing failed with status: %s. The image format or size may not be supported by Instagram."
)

// InstagramPublisher runs the upload → create → poll → publish workflow.
type InstagramPublisher struct {
	host   ImageHost
	graph  *GraphClient
	poller *ContainerPoller
	sleep  SleepFunc
}

// NewInstagramPublisher wires the workflow. A nil sleep uses real timers.
func NewInstagramPublisher(host ImageHost, graph *GraphClient, sleep SleepFunc) *InstagramPublisher {
	if sleep == nil {
		sleep = Sleep
	}
	return &InstagramPublisher{
		host:   host,
		graph:  graph,
		poller: NewContainerPoller(graph, sleep),
		sleep:  sleep,
	}
}

// Publish runs the whole workflow and shapes every outcome into a result.
// Identical requests are not deduplicated: each call creates a new post.
func (p *InstagramPublisher) Publish(ctx context.Context, req models.PublishRequest) models.PublishResult {
	postID, err := p.publish(ctx, req)
	if err != nil {
		return resultFromError(err)
	}
	return models.PublishResult{
		Success:    true,
		Message:    msgPublished,
		PostID:     postID,
		StatusCode: http.StatusOK,
	}
}

func (p *InstagramPublisher) publish(ctx context.Context, req models.PublishRequest) (string, error) {
	caption := req.CaptionText()
	if strings.TrimSpace(caption) == "" {
		return "", ValidationError{Reason: msgCaptionRequired}
	}
	if len(req.Images) == 0 {
		return "", ValidationError{Reason: msgImageRequired}
	}

	hosted, err := p.host.Upload(ctx, req.Images[0])
	if err != nil {
		return "", err
	}
	logutil.Infof("image uploaded, waiting %s before creating container", HostSettleDelay)

	if err := p.sleep(ctx, HostSettleDelay); err != nil {
		return "", err
	}

	containerID, err := p.graph.CreateContainer(ctx, hosted.URL, caption)
	if err != nil {
		return "", err
	}

	status, attempts, err := p.poller.Await(ctx, containerID)
	if err != nil {
		return "", err
	}
	if !status.Publishable() {
		return "", &ProcessingError{ContainerID: containerID, Status: status.String(), Attempts: attempts}
	}

	postID, err := p.graph.PublishContainer(ctx, containerID)
	if err != nil {
		return "", err
	}
	logutil.Infof("published container %s as post %s", containerID, postID)
	return postID, nil
}

func resultFromError(err error) models.PublishResult {
	var (
		validation ValidationError
		platform   *PlatformError
		processing *ProcessingError
	)
	switch {
	case errors.As(err, &validation):
		return failure(http.StatusBadRequest, validation.Reason)
	case errors.Is(err, ErrImageUpload):
		logutil.Errorf("instagram publish aborted: %v", err)
		return failure(http.StatusBadRequest, msgUploadFailed)
	case errors.As(err, &platform):
		return failure(platform.StatusCode, platform.Message)
	case errors.As(err, &processing):
		logutil.Errorf("instagram publish aborted: %v", err)
		return failure(http.StatusBadRequest, fmt.Sprintf(msgProcessingFailed, processing.Status))
	default:
		logutil.Errorf("instagram publish failed: %v", err)
		return failure(http.StatusInternalServerError, err.Error())
	}
}

func failure(status int, message string) models.PublishResult {
	return models.PublishResult{Success: false, Message: message, StatusCode: status}
}
