package models

import "strings"

// PublishRequest is the inbound body of the Instagram publish endpoint.
type PublishRequest struct {
	Caption string   `json:"caption,omitempty"`
	Text    string   `json:"text,omitempty"`
	Images  []string `json:"images"`
}

// CaptionText returns the caption, falling back to the text alias.
func (r PublishRequest) CaptionText() string {
	if strings.TrimSpace(r.Caption) != "" {
		return r.Caption
	}
	return r.Text
}

// HostedImage is a publicly fetchable URL produced by an image host.
type HostedImage struct {
	URL string `json:"url"`
}

// PublishResult is the single output of a publish workflow. StatusCode is
// the HTTP status the handler writes back.
type PublishResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	PostID     string `json:"postId,omitempty"`
	StatusCode int    `json:"-"`
}

// GraphErrorResponse is the structured error body returned by the Graph API.
type GraphErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// InstagramMediaResponse represents the response from Instagram media endpoints
type InstagramMediaResponse struct {
	ID         string `json:"id"`
	StatusCode string `json:"status_code"`
}

// TwitterPostRequest is the inbound body of the Twitter publish endpoint.
type TwitterPostRequest struct {
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// TwitterPostResult mirrors PublishResult for tweets.
type TwitterPostResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	TweetID    string `json:"tweetId,omitempty"`
	StatusCode int    `json:"-"`
}

// LinkedInPostRequest is the inbound body of the LinkedIn publish endpoint.
type LinkedInPostRequest struct {
	Text string `json:"text"`
}

// ExportRequest is the inbound body of the sheets export endpoint.
type ExportRequest struct {
	Title       string `json:"title"`
	Caption     string `json:"caption"`
	Hashtags    string `json:"hashtags"`
	Platform    string `json:"platform"`
	ImageBase64 string `json:"imageBase64"`
	Status      string `json:"status"`
}

// ExportResult is returned by the sheets export endpoint.
type ExportResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	DriveFileURL   string `json:"driveFileUrl,omitempty"`
	SheetRowNumber int    `json:"sheetRowNumber,omitempty"`
	StatusCode     int    `json:"-"`
}
