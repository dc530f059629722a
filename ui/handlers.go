package ui

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tabulite/adapters/excel"
	"tabulite/adapters/pdf"
	"tabulite/adapters/sqlite"
	"tabulite/app"
	"tabulite/domain/record"
	"tabulite/internal/errors"
	"tabulite/internal/staging"
)

// stagedWorkbookName is the intermediate spreadsheet written after a PDF
// pre-conversion, offered as a secondary download.
const stagedWorkbookName = "converted.xlsx"

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// handleInspect stages an uploaded document, runs PDF pre-conversion when
// needed, and shows the sheet-selection form.
func (s *Server) handleInspect(c *gin.Context) {
	file, err := c.FormFile("document")
	if err != nil {
		s.renderError(c, http.StatusBadRequest, errors.InvalidInput("no document uploaded"))
		return
	}
	if file.Size > s.cfg.MaxUploadBytes {
		s.renderError(c, http.StatusRequestEntityTooLarge,
			errors.InvalidInput("uploaded document exceeds the size limit"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".xlsx", ".xlsm", ".csv", ".pdf":
	default:
		s.renderError(c, http.StatusBadRequest,
			errors.InvalidInput("unsupported file type: "+ext))
		return
	}

	ws, err := staging.NewWorkspace(s.cfg.WorkDir)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		ws.Cleanup()
		s.renderError(c, http.StatusBadRequest, errors.Wrap(err, "failed to read upload"))
		return
	}
	defer src.Close()

	stagedPath, err := ws.Save(file.Filename, src)
	if err != nil {
		ws.Cleanup()
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	sess := &session{
		id:         uuid.New().String(),
		workspace:  ws,
		sourcePath: stagedPath,
		uploadName: file.Filename,
		createdAt:  time.Now(),
	}

	if ext == ".pdf" {
		sheets, err := pdf.NewExtractor(stagedPath).PreConvert(c.Request.Context())
		if err != nil {
			ws.Cleanup()
			s.renderError(c, http.StatusBadRequest, err)
			return
		}
		sess.fromPDF = true
		if len(sheets) > 0 {
			workbookPath := ws.Path(stagedWorkbookName)
			if err := excel.WriteWorkbook(workbookPath, sheets); err != nil {
				ws.Cleanup()
				s.renderError(c, http.StatusInternalServerError, err)
				return
			}
			sess.sourcePath = workbookPath
		} else {
			// A blank PDF converts to an empty report; there is nothing
			// to select or materialize.
			sess.sourcePath = ""
		}
	}

	if sess.sourcePath != "" {
		names, err := excel.NewSheetReader(sess.sourcePath).ListSheets()
		if err != nil {
			ws.Cleanup()
			s.renderError(c, http.StatusBadRequest, err)
			return
		}
		sess.sheets = names
	}

	s.putSession(sess)
	s.logger.Info("document staged",
		zap.String("session", sess.id),
		zap.String("file", file.Filename),
		zap.Int("sheets", len(sess.sheets)),
		zap.Bool("from_pdf", sess.fromPDF))

	c.HTML(http.StatusOK, "select.html", gin.H{
		"SessionID": sess.id,
		"FileName":  file.Filename,
		"Sheets":    sess.sheets,
		"FromPDF":   sess.fromPDF,
		"DBName":    defaultDBName(file.Filename),
	})
}

// handleConvert runs the pipeline over the selected sheets and renders the
// report with per-table previews.
func (s *Server) handleConvert(c *gin.Context) {
	sess, ok := s.getSession(c.Param("id"))
	if !ok {
		s.renderError(c, http.StatusNotFound, errors.InvalidInput("conversion session not found or expired"))
		return
	}

	dbName := strings.TrimSpace(c.PostForm("db_name"))
	if dbName == "" {
		dbName = defaultDBName(sess.uploadName)
	}
	if !strings.HasSuffix(dbName, ".db") {
		dbName += ".db"
	}
	selected := c.PostFormArray("sheets")

	dbPath := sess.workspace.Path(filepath.Base(dbName))
	s.setConvertTarget(sess, dbPath)

	report, previews, convErr := s.runConversion(c, sess, dbPath, selected)
	if report == nil {
		report = &record.ConversionReport{StorePath: dbPath}
	}
	s.setReport(sess, report)

	if convErr != nil {
		s.logger.Error("conversion failed",
			zap.String("session", sess.id),
			zap.String("code", errors.GetCode(convErr)),
			zap.Error(convErr))
		c.HTML(http.StatusUnprocessableEntity, "report.html", gin.H{
			"SessionID": sess.id,
			"FileName":  sess.uploadName,
			"FromPDF":   sess.fromPDF,
			"DBName":    dbName,
			"Report":    report,
			"Previews":  previews,
			"Error":     convErr.Error(),
		})
		return
	}

	c.HTML(http.StatusOK, "report.html", gin.H{
		"SessionID": sess.id,
		"FileName":  sess.uploadName,
		"FromPDF":   sess.fromPDF,
		"DBName":    dbName,
		"Report":    report,
		"Previews":  previews,
	})
}

// runConversion opens the store, converts, and collects previews. The store
// is closed before control returns regardless of outcome.
func (s *Server) runConversion(c *gin.Context, sess *session, dbPath string, selected []string) (*record.ConversionReport, map[string]*record.RecordSet, error) {
	ctx := c.Request.Context()

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	service := app.NewConversionService(store, s.logger)

	var report *record.ConversionReport
	if sess.sourcePath == "" {
		// Blank PDF: nothing staged, empty report.
		report = &record.ConversionReport{StorePath: dbPath}
	} else {
		report, err = service.ConvertSource(ctx, excel.NewSheetReader(sess.sourcePath), selected)
	}

	previews := make(map[string]*record.RecordSet)
	if report != nil {
		for _, res := range report.Results {
			preview, perr := service.Preview(ctx, res.TableName, s.cfg.PreviewRows)
			if perr != nil {
				s.logger.Warn("preview failed",
					zap.String("table", res.TableName), zap.Error(perr))
				continue
			}
			previews[res.TableName] = preview
		}
	}
	return report, previews, err
}

// handlePreview serves a bounded JSON preview of one materialized table.
func (s *Server) handlePreview(c *gin.Context) {
	sess, ok := s.getSession(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversion session not found or expired"})
		return
	}
	dbPath := s.sessionDBPath(sess)
	if dbPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversion session not found or expired"})
		return
	}

	limit := s.cfg.PreviewRows
	if raw := c.Query("rows"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer store.Close()

	rs, err := store.Preview(c.Request.Context(), c.Param("table"), limit)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.HasCode(err, errors.CodeTableNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	rows := make([]map[string]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		display := make(map[string]string, len(rs.Columns))
		for _, col := range rs.Columns {
			display[col] = row[col].String()
		}
		rows = append(rows, display)
	}
	c.JSON(http.StatusOK, gin.H{"columns": rs.Columns, "rows": rows})
}

func (s *Server) handleDownloadDatabase(c *gin.Context) {
	sess, ok := s.getSession(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "conversion session not found or expired")
		return
	}
	dbPath := s.sessionDBPath(sess)
	if dbPath == "" {
		c.String(http.StatusNotFound, "conversion session not found or expired")
		return
	}
	c.FileAttachment(dbPath, filepath.Base(dbPath))
}

func (s *Server) handleDownloadWorkbook(c *gin.Context) {
	sess, ok := s.getSession(c.Param("id"))
	if !ok || !sess.fromPDF || !sess.workspace.Exists(stagedWorkbookName) {
		c.String(http.StatusNotFound, "no intermediate workbook for this session")
		return
	}
	c.FileAttachment(sess.workspace.Path(stagedWorkbookName), stagedWorkbookName)
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.HTML(status, "error.html", gin.H{"Error": err.Error()})
}

// defaultDBName derives the store file name from the uploaded file name.
func defaultDBName(uploadName string) string {
	base := strings.TrimSuffix(filepath.Base(uploadName), filepath.Ext(uploadName))
	if base == "" {
		base = "converted"
	}
	return base + ".db"
}
