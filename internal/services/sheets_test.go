package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"studio/internal/models"
)

type fakeDrive struct {
	names []string
	mimes []string
	err   error
}

func (f *fakeDrive) UploadImage(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	f.names = append(f.names, name)
	f.mimes = append(f.mimes, mimeType)
	if f.err != nil {
		return "", f.err
	}
	return "https://drive.google.com/file/d/abc/view", nil
}

type fakeSheet struct {
	rows [][]interface{}
	err  error
}

func (f *fakeSheet) AppendRow(ctx context.Context, values []interface{}) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.rows = append(f.rows, values)
	return len(f.rows) + 1, nil
}

func newTestExporter(d *fakeDrive, s *fakeSheet) *SheetsExporter {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &SheetsExporter{drive: d, sheets: s, now: func() time.Time { return fixed }}
}

func TestExportWithImage(t *testing.T) {
	d, s := &fakeDrive{}, &fakeSheet{}
	req := models.ExportRequest{
		Title:       "Spring Launch!",
		Caption:     "New drop",
		Hashtags:    "#spring",
		Platform:    "instagram",
		ImageBase64: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader),
		Status:      "scheduled",
	}

	res := newTestExporter(d, s).Export(context.Background(), req)

	require.True(t, res.Success, res.Message)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 2, res.SheetRowNumber)
	assert.Equal(t, "https://drive.google.com/file/d/abc/view", res.DriveFileURL)
	assert.Equal(t, []string{"image/png"}, d.mimes)
	assert.True(t, strings.HasPrefix(d.names[0], "spring-launch-"))
	assert.True(t, strings.HasSuffix(d.names[0], ".png"))
	assert.Equal(t, []interface{}{
		"2025-03-01T12:00:00Z", "Spring Launch!", "New drop", "#spring", "instagram", "scheduled",
		"https://drive.google.com/file/d/abc/view",
	}, s.rows[0])
}

func TestExportWithoutImageUsesDefaults(t *testing.T) {
	d, s := &fakeDrive{}, &fakeSheet{}

	res := newTestExporter(d, s).Export(context.Background(), models.ExportRequest{Caption: "only caption"})

	require.True(t, res.Success)
	assert.Empty(t, res.DriveFileURL)
	assert.Empty(t, d.names)
	assert.Equal(t, "instagram", s.rows[0][4])
	assert.Equal(t, "draft", s.rows[0][5])
}

func TestExportValidation(t *testing.T) {
	d, s := &fakeDrive{}, &fakeSheet{}
	exp := newTestExporter(d, s)

	res := exp.Export(context.Background(), models.ExportRequest{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = exp.Export(context.Background(), models.ExportRequest{Title: "t", ImageBase64: "***"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = exp.Export(context.Background(), models.ExportRequest{Title: "t", ImageBase64: base64.StdEncoding.EncodeToString([]byte("text"))})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Empty(t, s.rows)
}

func TestExportFailures(t *testing.T) {
	image := base64.StdEncoding.EncodeToString(pngHeader)

	res := newTestExporter(&fakeDrive{err: errors.New("quota")}, &fakeSheet{}).
		Export(context.Background(), models.ExportRequest{Title: "t", ImageBase64: image})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, res.Message, "quota")

	res = newTestExporter(&fakeDrive{}, &fakeSheet{err: errors.New("forbidden")}).
		Export(context.Background(), models.ExportRequest{Title: "t", ImageBase64: image})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.NotEmpty(t, res.DriveFileURL)
}

func TestRowFromRange(t *testing.T) {
	row, err := rowFromRange("Sheet1!A7:G7")
	require.NoError(t, err)
	assert.Equal(t, 7, row)

	row, err = rowFromRange("'Content Plan'!B12")
	require.NoError(t, err)
	assert.Equal(t, 12, row)

	_, err = rowFromRange("Sheet1!A:G")
	assert.Error(t, err)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "spring-launch", slug("  Spring   Launch!! "))
	assert.Equal(t, "post", slug("!!!"))
	assert.LessOrEqual(t, len(slug(strings.Repeat("a", 100))), 40)
}

func TestGoogleSheetsAppendRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-1/values/"), r.URL.Path)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"), r.URL.Path)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))

		var body sheets.ValueRange
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Values, 1)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"spreadsheetId":"sheet-1","updates":{"updatedRange":"Sheet1!A9:G9","updatedRows":1}}`))
	}))
	defer srv.Close()

	svc, err := sheets.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	g := &googleSheets{svc: svc, spreadsheetID: "sheet-1", valueRange: "Sheet1!A:G"}
	row, err := g.AppendRow(context.Background(), []interface{}{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 9, row)
}
