package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2/google"
)

const (
	defaultAddr           = ":3000"
	defaultGraphURL       = "https://graph.facebook.com"
	defaultGraphVersion   = "v18.0"
	defaultImgBBUploadURL = "https://api.imgbb.com/1/upload"
	defaultLinkedInAPIURL = "https://api.linkedin.com/v2"
	defaultSheetsRange    = "Sheet1!A:G"

	ImageHostImgBB = "imgbb"
	ImageHostS3    = "s3"
)

// Scopes requested for the Google service account used by the sheets export.
var googleScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.file",
}

// Credentials is the shape of the optional JSON credentials file. Environment
// variables take precedence over anything read from it.
type Credentials struct {
	Instagram struct {
		AccessToken string `json:"access_token"`
		AccountID   string `json:"account_id"`
	} `json:"instagram"`
	ImgBB struct {
		APIKey string `json:"api_key"`
	} `json:"imgbb"`
	Twitter struct {
		ConsumerKey       string `json:"consumer_key"`
		ConsumerSecret    string `json:"consumer_secret"`
		AccessToken       string `json:"access_token"`
		AccessTokenSecret string `json:"access_token_secret"`
	} `json:"twitter"`
	LinkedIn struct {
		AccessToken string `json:"access_token"`
		AuthorURN   string `json:"author_urn"`
	} `json:"linkedin"`
	Google struct {
		CredentialsFile string `json:"credentials_file"`
		SpreadsheetID   string `json:"spreadsheet_id"`
		DriveFolderID   string `json:"drive_folder_id"`
	} `json:"google"`
}

// InstagramConfig holds the Graph API settings for the publish workflow.
type InstagramConfig struct {
	AccessToken  string
	AccountID    string
	GraphURL     string
	GraphVersion string
}

// ImageHostConfig selects and configures the image hosting provider.
type ImageHostConfig struct {
	Provider       string
	ImgBBAPIKey    string
	ImgBBUploadURL string
	S3Bucket       string
	S3Prefix       string
	S3PublicURL    string
}

type TwitterConfig struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

type LinkedInConfig struct {
	AccessToken string
	AuthorURN   string
	APIURL      string
}

// SheetsConfig configures the Google Sheets / Drive export.
type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	Range           string
	DriveFolderID   string
}

// Config holds all configuration for the application
type Config struct {
	Addr      string
	Verbose   bool
	Instagram InstagramConfig
	ImageHost ImageHostConfig
	Twitter   TwitterConfig
	LinkedIn  LinkedInConfig
	Sheets    SheetsConfig
}

var globalConfig *Config

// Load reads the optional credentials file and overlays environment
// variables. An empty filename or a missing file is not an error.
func Load(filename string) (*Config, error) {
	creds, err := loadCredentials(filename)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:    getEnv("STUDIO_ADDR", defaultAddr),
		Verbose: getBool("STUDIO_VERBOSE", false),
		Instagram: InstagramConfig{
			AccessToken:  getEnv("INSTAGRAM_ACCESS_TOKEN", creds.Instagram.AccessToken),
			AccountID:    getEnv("INSTAGRAM_ACCOUNT_ID", creds.Instagram.AccountID),
			GraphURL:     strings.TrimSuffix(getEnv("INSTAGRAM_GRAPH_URL", defaultGraphURL), "/"),
			GraphVersion: getEnv("INSTAGRAM_GRAPH_VERSION", defaultGraphVersion),
		},
		ImageHost: ImageHostConfig{
			Provider:       strings.ToLower(getEnv("IMAGE_HOST", ImageHostImgBB)),
			ImgBBAPIKey:    getEnv("IMGBB_API_KEY", creds.ImgBB.APIKey),
			ImgBBUploadURL: getEnv("IMGBB_UPLOAD_URL", defaultImgBBUploadURL),
			S3Bucket:       os.Getenv("IMAGE_S3_BUCKET"),
			S3Prefix:       os.Getenv("IMAGE_S3_PREFIX"),
			S3PublicURL:    strings.TrimSuffix(os.Getenv("IMAGE_S3_PUBLIC_URL"), "/"),
		},
		Twitter: TwitterConfig{
			ConsumerKey:       getEnv("TWITTER_CONSUMER_KEY", creds.Twitter.ConsumerKey),
			ConsumerSecret:    getEnv("TWITTER_CONSUMER_SECRET", creds.Twitter.ConsumerSecret),
			AccessToken:       getEnv("TWITTER_ACCESS_TOKEN", creds.Twitter.AccessToken),
			AccessTokenSecret: getEnv("TWITTER_ACCESS_TOKEN_SECRET", creds.Twitter.AccessTokenSecret),
		},
		LinkedIn: LinkedInConfig{
			AccessToken: getEnv("LINKEDIN_ACCESS_TOKEN", creds.LinkedIn.AccessToken),
			AuthorURN:   getEnv("LINKEDIN_AUTHOR_URN", creds.LinkedIn.AuthorURN),
			APIURL:      strings.TrimSuffix(getEnv("LINKEDIN_API_URL", defaultLinkedInAPIURL), "/"),
		},
		Sheets: SheetsConfig{
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", creds.Google.CredentialsFile),
			SpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", creds.Google.SpreadsheetID),
			Range:           getEnv("SHEETS_RANGE", defaultSheetsRange),
			DriveFolderID:   getEnv("DRIVE_FOLDER_ID", creds.Google.DriveFolderID),
		},
	}

	switch cfg.ImageHost.Provider {
	case ImageHostImgBB:
	case ImageHostS3:
		if cfg.ImageHost.S3Bucket == "" {
			return nil, fmt.Errorf("IMAGE_S3_BUCKET is required when IMAGE_HOST=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported IMAGE_HOST %q", cfg.ImageHost.Provider)
	}

	globalConfig = cfg
	return cfg, nil
}

func loadCredentials(filename string) (*Credentials, error) {
	var creds Credentials
	if filename == "" {
		return &creds, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &creds, nil
		}
		return nil, fmt.Errorf("failed to read credential file '%s': %w", filename, err)
	}

	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credential file '%s': %w", filename, err)
	}
	return &creds, nil
}

// GoogleCredentials builds service-account credentials for the sheets export.
func (c *Config) GoogleCredentials(ctx context.Context) (*google.Credentials, error) {
	if c.Sheets.CredentialsFile == "" {
		return google.FindDefaultCredentials(ctx, googleScopes...)
	}
	data, err := os.ReadFile(c.Sheets.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials '%s': %w", c.Sheets.CredentialsFile, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, googleScopes...)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	return creds, nil
}

// Get returns the current global configuration
func Get() *Config {
	if globalConfig == nil {
		panic("Configuration accessed before it was successfully loaded")
	}
	return globalConfig
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
