package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsplit/adapters/excel"
	"sheetsplit/app"
	"sheetsplit/domain/sheet"
	"sheetsplit/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *Server {
	service := app.NewSplitService(
		excel.NewReader(excel.DefaultReaderConfig(), nil),
		excel.NewWriter(excel.DefaultWriterConfig(), nil),
		nil,
		nil,
	)
	return NewServer(service, 1<<20, nil)
}

func multipartBody(t *testing.T, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func post(t *testing.T, s *Server, filename string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, payload)
	req := httptest.NewRequest(http.MethodPost, "/api/split", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSplitReturnsInlineWorkbooks(t *testing.T) {
	rows := make([]sheet.Row, 30)
	for i := range rows {
		rows[i] = sheet.Row{fmt.Sprintf("r%d", i+1), float64(i)}
	}
	payload, err := excel.NewWriter(excel.DefaultWriterConfig(), nil).Encode([]string{"name", "n"}, rows)
	require.NoError(t, err)

	rec := post(t, newTestServer(), "big.xlsx", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SplitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.TotalRows)
	assert.Equal(t, []app.ChunkSummary{{Name: "1.xlsx", Rows: 7}, {Name: "2.xlsx", Rows: 7}, {Name: "3.xlsx", Rows: 7}}, resp.Chunks)
	require.Len(t, resp.Downloads, 3)

	reader := excel.NewReader(excel.DefaultReaderConfig(), nil)
	last, err := reader.Decode(resp.Downloads[2].Name, resp.Downloads[2].Data)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "n"}, last.Header)
	require.Len(t, last.Rows, 7)
	assert.Equal(t, "r21", last.Rows[6][0])
}

func TestSplitEmptySheet(t *testing.T) {
	payload, err := excel.NewWriter(excel.DefaultWriterConfig(), nil).Encode([]string{"only"}, nil)
	require.NoError(t, err)

	rec := post(t, newTestServer(), "empty.xlsx", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SplitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Downloads)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, app.LevelWarning, resp.Messages[1].Level)
}

func TestSplitDecodeFailure(t *testing.T) {
	rec := post(t, newTestServer(), "broken.xlsx", []byte("garbage"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeDecodeError, resp.Code)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, app.LevelError, resp.Messages[0].Level)
}

func TestSplitRejectsBadUploads(t *testing.T) {
	s := newTestServer()

	emptyBody := httptest.NewRecorder()
	s.Handler().ServeHTTP(emptyBody, httptest.NewRequest(http.MethodPost, "/api/split", nil))

	tests := []struct {
		name    string
		rec     *httptest.ResponseRecorder
		status  int
		message string
	}{
		{"wrong extension", post(t, s, "notes.txt", []byte("hi")), http.StatusBadRequest, "Only Excel"},
		{"too large", post(t, s, "huge.xlsx", bytes.Repeat([]byte{'x'}, 2<<20)), http.StatusRequestEntityTooLarge, "exceeds the 1 MB limit"},
		{"no file", emptyBody, http.StatusBadRequest, "No file uploaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(tt.rec.Body.Bytes(), &resp))
			assert.Equal(t, errors.CodeInvalidInput, resp.Code)
			assert.Contains(t, resp.Error, tt.message)
		})
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEnableMetrics(t *testing.T) {
	s := newTestServer()
	s.EnableMetrics("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("sheetsplit_uploads_total 0"))
	}))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sheetsplit_uploads_total")
}
