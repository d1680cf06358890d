package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"studio/internal/config"
	"studio/internal/logutil"
	"studio/internal/models"
)

const (
	msgExported          = "Content exported to Google Sheets"
	msgExportNeedsText   = "Title or caption is required"
	defaultExportStatus  = "draft"
	defaultExportChannel = "instagram"
)

type driveUploader interface {
	UploadImage(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

type sheetAppender interface {
	AppendRow(ctx context.Context, values []interface{}) (int, error)
}

// SheetsExporter records generated content as a spreadsheet row, with the
// image stored in Google Drive.
type SheetsExporter struct {
	drive  driveUploader
	sheets sheetAppender
	now    func() time.Time
}

// NewSheetsExporter authenticates with the configured service account.
func NewSheetsExporter(ctx context.Context, cfg *config.Config) (*SheetsExporter, error) {
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, MissingConfigError{Provider: "google sheets", Variables: []string{"SHEETS_SPREADSHEET_ID"}}
	}
	creds, err := cfg.GoogleCredentials(ctx)
	if err != nil {
		return nil, err
	}
	ts := option.WithTokenSource(oauth2.ReuseTokenSource(nil, creds.TokenSource))

	sheetsSvc, err := sheets.NewService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &SheetsExporter{
		drive:  &googleDrive{svc: driveSvc, folderID: cfg.Sheets.DriveFolderID},
		sheets: &googleSheets{svc: sheetsSvc, spreadsheetID: cfg.Sheets.SpreadsheetID, valueRange: cfg.Sheets.Range},
		now:    time.Now,
	}, nil
}

// Export appends one row: timestamp, title, caption, hashtags, platform,
// status, drive link.
func (e *SheetsExporter) Export(ctx context.Context, req models.ExportRequest) models.ExportResult {
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Caption) == "" {
		return models.ExportResult{Message: msgExportNeedsText, StatusCode: http.StatusBadRequest}
	}

	var driveURL string
	if req.ImageBase64 != "" {
		url, err := e.uploadImage(ctx, req)
		if err != nil {
			var validation ValidationError
			if errors.As(err, &validation) {
				return models.ExportResult{Message: validation.Reason, StatusCode: http.StatusBadRequest}
			}
			logutil.Errorf("drive upload failed: %v", err)
			return models.ExportResult{Message: "Failed to upload image to Google Drive: " + err.Error(), StatusCode: http.StatusInternalServerError}
		}
		driveURL = url
	}

	platform := req.Platform
	if platform == "" {
		platform = defaultExportChannel
	}
	status := req.Status
	if status == "" {
		status = defaultExportStatus
	}

	row, err := e.sheets.AppendRow(ctx, []interface{}{
		e.now().UTC().Format(time.RFC3339),
		req.Title,
		req.Caption,
		req.Hashtags,
		platform,
		status,
		driveURL,
	})
	if err != nil {
		logutil.Errorf("sheet append failed: %v", err)
		return models.ExportResult{Message: "Failed to write to Google Sheets: " + err.Error(), DriveFileURL: driveURL, StatusCode: http.StatusInternalServerError}
	}

	logutil.Infof("exported %q to sheet row %d", req.Title, row)
	return models.ExportResult{
		Success:        true,
		Message:        msgExported,
		DriveFileURL:   driveURL,
		SheetRowNumber: row,
		StatusCode:     http.StatusOK,
	}
}

func (e *SheetsExporter) uploadImage(ctx context.Context, req models.ExportRequest) (string, error) {
	data, err := base64.StdEncoding.DecodeString(StripDataURL(req.ImageBase64))
	if err != nil {
		return "", ValidationError{Reason: "imageBase64 is not valid base64"}
	}
	mimeType := http.DetectContentType(data)
	ext, ok := imageExtensions[mimeType]
	if !ok {
		return "", ValidationError{Reason: "imageBase64 is not a supported image"}
	}
	name := fmt.Sprintf("%s-%s%s", slug(req.Title), uuid.NewString()[:8], ext)
	return e.drive.UploadImage(ctx, name, mimeType, data)
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "post"
	}
	if len(s) > 40 {
		s = strings.TrimSuffix(s[:40], "-")
	}
	return s
}

// rowFromRange extracts the first row number from an A1 range such as
// "Sheet1!A7:G7".
func rowFromRange(a1 string) (int, error) {
	if i := strings.LastIndex(a1, "!"); i >= 0 {
		a1 = a1[i+1:]
	}
	cell, _, _ := strings.Cut(a1, ":")
	digits := strings.TrimLeftFunc(cell, unicode.IsLetter)
	row, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("parse updated range %q: %w", a1, err)
	}
	return row, nil
}

type googleDrive struct {
	svc      *drive.Service
	folderID string
}

func (g *googleDrive) UploadImage(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	file := &drive.File{Name: name, MimeType: mimeType}
	if g.folderID != "" {
		file.Parents = []string{g.folderID}
	}
	created, err := g.svc.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("create drive file: %w", err)
	}

	_, err = g.svc.Permissions.Create(created.Id, &drive.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("share drive file: %w", err)
	}
	return created.WebViewLink, nil
}

type googleSheets struct {
	svc           *sheets.Service
	spreadsheetID string
	valueRange    string
}

func (g *googleSheets) AppendRow(ctx context.Context, values []interface{}) (int, error) {
	resp, err := g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, g.valueRange, &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}
	if resp.Updates == nil {
		return 0, errors.New("append row: response missing updates")
	}
	return rowFromRange(resp.Updates.UpdatedRange)
}
