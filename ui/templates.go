package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"clock": func(t time.Time) string {
			return t.Format("15:04:05")
		},
	}
}

// renderTemplate executes a template into a buffer first so a failure never
// leaves a half-written page
func (a *App) renderTemplate(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.logger.Error("template rendering failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("failed to write response", zap.Error(err))
	}
}
