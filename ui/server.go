// Package ui serves the local paste-form front end. It is a thin shell
// over the same report service the CLI uses; the core pipeline never
// knows it is behind HTTP.
package ui

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"statreport/adapters/excelreport"
	"statreport/adapters/textdata"
	"statreport/app"
	"statreport/internal"
	"statreport/internal/config"
)

// Server hosts the paste form.
type Server struct {
	cfg    *config.Config
	logger *internal.Logger
	router chi.Router
}

// NewServer builds the router and handlers.
func NewServer(cfg *config.Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Get("/healthz", s.handleHealth)

	s.router = r
	return s
}

// Router exposes the chi router, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe blocks serving on the configured port.
func (s *Server) ListenAndServe() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("[WebUI] listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>statreport</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
    textarea { width: 100%; height: 16rem; font-family: monospace; }
    button { padding: 0.5rem 1.5rem; font-size: 1rem; }
    .notes { background: #f6f8fa; padding: 1rem; border-radius: 6px; }
  </style>
</head>
<body>
  <h1>Statistical Report Generator</h1>
  <form method="post" action="/generate">
    <p>Paste one or more samples. Separate samples with a line containing only <code>---</code>.</p>
    <textarea name="data" placeholder="1 12.5&#10;2 13.1&#10;3 12.8"></textarea>
    <p><button type="submit">Generate Workbook</button></p>
  </form>
  <div class="notes">{{.Notes}}</div>
</body>
</html>`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, struct{ Notes template.HTML }{Notes: usageNotesHTML()})
	if err != nil {
		s.logger.Error("[WebUI] render index: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

// handleGenerate writes each pasted block to a temp file, runs the
// report service against those files and streams the workbook back.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	data := r.FormValue("data")
	blocks := splitBlocks(data)
	if len(blocks) == 0 {
		http.Error(w, "no data pasted", http.StatusBadRequest)
		return
	}

	workDir, err := os.MkdirTemp("", "statreport-web-*")
	if err != nil {
		http.Error(w, "temp dir: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(workDir)

	var paths []string
	for i, block := range blocks {
		path := filepath.Join(workDir, fmt.Sprintf("sample_%d.txt", i+1))
		if err := os.WriteFile(path, []byte(block), 0o644); err != nil {
			http.Error(w, "write sample: "+err.Error(), http.StatusInternalServerError)
			return
		}
		paths = append(paths, path)
	}

	output := filepath.Join(workDir, "report_pro.xlsx")
	loader := textdata.NewLoader(s.logger)
	builder := excelreport.NewBuilder(s.logger, s.cfg.Report.Alpha)
	service := app.NewReportService(loader, builder, s.logger, output)

	result, err := service.Generate(r.Context(), paths, s.cfg.Report.Alpha)
	if err != nil {
		s.logger.Warn("[WebUI] generation failed: %v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.logger.Info("[WebUI] run %s: streaming workbook", result.RunID)
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="report_pro.xlsx"`)
	http.ServeFile(w, r, output)
}

// splitBlocks cuts the pasted text on "---" separator lines and drops
// empty blocks.
func splitBlocks(data string) []string {
	var blocks []string
	var current []string
	flush := func() {
		block := strings.TrimSpace(strings.Join(current, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		current = nil
	}
	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}
