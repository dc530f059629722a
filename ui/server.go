// Package ui is the provisioning and delivery shell: it accepts document
// uploads, drives the conversion pipeline, and serves the resulting store
// file, intermediate workbook, and conversion report.
package ui

import (
	"embed"
	"html/template"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tabulite/domain/record"
	"tabulite/internal/config"
	"tabulite/internal/staging"
)

//go:embed templates/*.html
var templateFiles embed.FS

// session tracks one staged conversion between upload, conversion, and
// download. Each session owns its workspace; no state is shared between
// sessions.
type session struct {
	id         string
	workspace  *staging.Workspace
	sourcePath string // spreadsheet path fed to the pipeline
	uploadName string
	fromPDF    bool
	sheets     []string
	dbPath     string
	report     *record.ConversionReport
	createdAt  time.Time
}

// Server is the web shell for the converter.
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewServer creates the web shell.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	router := gin.Default()
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = 16 << 20

	s := &Server{
		router:   router,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*session),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/inspect", s.handleInspect)
	s.router.POST("/convert/:id", s.handleConvert)
	s.router.GET("/preview/:id/:table", s.handlePreview)
	s.router.GET("/download/:id/database", s.handleDownloadDatabase)
	s.router.GET("/download/:id/workbook", s.handleDownloadWorkbook)
}

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	s.logger.Info("starting web shell", zap.String("port", s.cfg.Port))
	return s.router.Run(":" + s.cfg.Port)
}

// getSession looks up a live session, sweeping out expired ones first.
func (s *Server) getSession(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Server) putSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[sess.id] = sess
}

// Mutable session fields are written after the session is published in the
// map, so concurrent requests on the same id go through these accessors.

func (s *Server) setConvertTarget(sess *session, dbPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.dbPath = dbPath
}

func (s *Server) setReport(sess *session, report *record.ConversionReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.report = report
}

func (s *Server) sessionDBPath(sess *session) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.dbPath
}

// sweepLocked drops sessions past their TTL and removes their workspaces.
// Caller must hold mu.
func (s *Server) sweepLocked() {
	ttl := time.Duration(s.cfg.SessionTTLMinutes) * time.Minute
	for id, sess := range s.sessions {
		if time.Since(sess.createdAt) <= ttl {
			continue
		}
		if err := sess.workspace.Cleanup(); err != nil {
			s.logger.Warn("failed to clean expired workspace",
				zap.String("session", id), zap.Error(err))
		}
		delete(s.sessions, id)
	}
}
