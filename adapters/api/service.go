package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetsplit/app"
	"sheetsplit/internal/errors"
)

// Server exposes the split workflow as a JSON API
type Server struct {
	router         *gin.Engine
	service        *app.SplitService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewServer creates the gin engine and registers the API routes
func NewServer(service *app.SplitService, maxUploadBytes int64, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = maxUploadBytes

	s := &Server{
		router:         router,
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("api"),
	}
	s.router.Use(s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/split", s.handleSplit)
}

// EnableMetrics serves h (usually a prometheus handler) on path
func (s *Server) EnableMetrics(path string, h http.Handler) {
	s.router.GET(path, gin.WrapH(h))
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the API server on addr
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSplit accepts a multipart upload in field "file" and returns every chunk inline
func (s *Server) handleSplit(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(errors.InvalidInput("No file uploaded")))
		return
	}

	if header.Size > s.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, newErrorResponse(errors.InvalidInput(
			fmt.Sprintf("File size (%.1f MB) exceeds the %d MB limit", float64(header.Size)/(1024*1024), s.maxUploadBytes>>20))))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".xls" && ext != ".csv" {
		c.JSON(http.StatusBadRequest, newErrorResponse(errors.InvalidInput("Only Excel (.xlsx, .xls) and CSV (.csv) files are allowed")))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(errors.WithCode(errors.CodeInvalidInput, "Failed to open upload", err)))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(errors.WithCode(errors.CodeInvalidInput, "Failed to read upload", err)))
		return
	}

	result, err := s.service.Handle(c.Request.Context(), app.Upload{Filename: header.Filename, Data: data})
	if err != nil {
		resp := ErrorResponse{Error: err.Error(), Code: app.ErrorCode(err)}
		if result != nil {
			resp.Messages = result.Messages
			c.JSON(http.StatusUnprocessableEntity, resp)
			return
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, newSplitResponse(result))
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()))
	}
}
