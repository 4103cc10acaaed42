package ui

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sheetsplit/app"
	apperrors "sheetsplit/internal/errors"
)

const uploadField = "file"

var allowedExtensions = []string{".xlsx", ".xls", ".csv"}

// pageData feeds templates/index.html
type pageData struct {
	Intro    template.HTML
	Filename string
	Result   *app.Result
	BatchID  string
	Expires  time.Time
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, http.StatusOK, "index.html", pageData{Intro: a.intro})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// handleUpload accepts one workbook, splits it and renders the download links
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.gate.Acquire(ctx, 1); err != nil {
		a.renderError(w, http.StatusServiceUnavailable, "", "The server is busy, try again shortly.")
		return
	}
	defer a.gate.Release(1)

	// Multipart framing gets 1 MB of headroom on top of the file limit.
	bodyLimit := a.config.MaxUploadBytes + (1 << 20)
	if r.ContentLength > bodyLimit {
		a.renderError(w, http.StatusRequestEntityTooLarge, "",
			fmt.Sprintf("File exceeds the %d MB limit.", a.config.MaxUploadBytes>>20))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.renderError(w, http.StatusRequestEntityTooLarge, "",
				fmt.Sprintf("File exceeds the %d MB limit.", a.config.MaxUploadBytes>>20))
			return
		}
		a.renderError(w, http.StatusBadRequest, "", "No file uploaded.")
		return
	}
	defer file.Close()

	if header.Size > a.config.MaxUploadBytes {
		a.renderError(w, http.StatusRequestEntityTooLarge, header.Filename,
			fmt.Sprintf("File exceeds the %d MB limit.", a.config.MaxUploadBytes>>20))
		return
	}
	if !hasAllowedExtension(header.Filename) {
		a.renderError(w, http.StatusBadRequest, header.Filename, "Only Excel (.xlsx, .xls) and CSV (.csv) files are allowed.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		a.renderError(w, http.StatusBadRequest, header.Filename, fmt.Sprintf("Failed to read upload: %v", err))
		return
	}

	result, err := a.service.Handle(ctx, app.Upload{Filename: header.Filename, Data: data})
	if err != nil {
		if result == nil {
			a.renderError(w, http.StatusInternalServerError, header.Filename, err.Error())
			return
		}
		a.renderTemplate(w, http.StatusUnprocessableEntity, "index.html", pageData{
			Intro:    a.intro,
			Filename: header.Filename,
			Result:   result,
		})
		return
	}

	page := pageData{Intro: a.intro, Filename: header.Filename, Result: result}
	if len(result.Downloads) > 0 {
		batchID, expires, err := a.store.Put(ctx, result.Downloads)
		if err != nil {
			a.logger.Error("failed to hold downloads", zap.Error(err))
			a.renderError(w, http.StatusInternalServerError, header.Filename, "Failed to prepare downloads.")
			return
		}
		page.BatchID = batchID
		page.Expires = expires
	}

	a.renderTemplate(w, http.StatusOK, "index.html", page)
}

// handleDownload streams one encoded chunk as an attachment
func (a *App) handleDownload(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batch")
	name := chi.URLParam(r, "name")

	dl, err := a.store.Get(r.Context(), batchID, name)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeNotFound {
			http.Error(w, "download not found or expired", http.StatusNotFound)
			return
		}
		a.logger.Error("download lookup failed", zap.String("batch", batchID), zap.Error(err))
		http.Error(w, "download failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Name}))
	w.Header().Set("Content-Length", fmt.Sprint(len(dl.Data)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(dl.Data)
}

func (a *App) renderError(w http.ResponseWriter, status int, filename, text string) {
	a.renderTemplate(w, status, "index.html", pageData{
		Intro:    a.intro,
		Filename: filename,
		Result: &app.Result{Messages: []app.Message{{
			Level: app.LevelError,
			Text:  text,
		}}},
	})
}

func hasAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
