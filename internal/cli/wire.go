package cli

import (
	"context"
	"net/http"
	"time"

	"studio/internal/config"
	"studio/internal/handlers"
	"studio/internal/logutil"
	"studio/internal/services"
)

// No per-call deadline is applied to outbound calls; this only bounds a
// hung connection.
const outboundTimeout = 2 * time.Minute

func newTransport() services.Transport {
	return services.NewHTTPTransport(&http.Client{Timeout: outboundTimeout})
}

func buildImageHost(ctx context.Context, cfg config.ImageHostConfig, transport services.Transport) (services.ImageHost, error) {
	if cfg.Provider == config.ImageHostS3 {
		return services.NewS3Host(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3PublicURL)
	}
	return services.NewImgBBHost(cfg.ImgBBAPIKey, cfg.ImgBBUploadURL, transport), nil
}

func buildInstagram(ctx context.Context, cfg *config.Config, transport services.Transport) (*services.InstagramPublisher, error) {
	var missing []string
	if cfg.Instagram.AccessToken == "" {
		missing = append(missing, "INSTAGRAM_ACCESS_TOKEN")
	}
	if cfg.Instagram.AccountID == "" {
		missing = append(missing, "INSTAGRAM_ACCOUNT_ID")
	}
	if len(missing) > 0 {
		return nil, services.MissingConfigError{Provider: "instagram", Variables: missing}
	}

	host, err := buildImageHost(ctx, cfg.ImageHost, transport)
	if err != nil {
		return nil, err
	}
	graph := services.NewGraphClient(cfg.Instagram.GraphURL, cfg.Instagram.GraphVersion,
		cfg.Instagram.AccessToken, cfg.Instagram.AccountID, transport)
	return services.NewInstagramPublisher(host, graph, services.Sleep), nil
}

// buildServices wires every configured integration. Missing credentials
// disable only the affected endpoint.
func buildServices(ctx context.Context, cfg *config.Config) handlers.Services {
	transport := newTransport()
	var svc handlers.Services

	if p, err := buildInstagram(ctx, cfg, transport); err != nil {
		logutil.Warnf("instagram disabled: %v", err)
	} else {
		svc.Instagram = p
	}

	if p, err := services.NewTwitterPublisher(cfg.Twitter); err != nil {
		logutil.Warnf("twitter disabled: %v", err)
	} else {
		svc.Twitter = p
	}

	if p, err := services.NewLinkedInPublisher(cfg.LinkedIn, transport); err != nil {
		logutil.Warnf("linkedin disabled: %v", err)
	} else {
		svc.LinkedIn = p
	}

	if e, err := services.NewSheetsExporter(ctx, cfg); err != nil {
		logutil.Warnf("sheets export disabled: %v", err)
	} else {
		svc.Sheets = e
	}

	return svc
}
