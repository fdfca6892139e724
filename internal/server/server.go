// Package server is the HTTP dashboard: upload or generate a workbook, then
// browse KPIs, suggestions and charts. Every request runs the whole
// load, compute, format and render pipeline synchronously.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
	"github.com/KaramelBytes/dashwise-cli/internal/demo"
	"github.com/KaramelBytes/dashwise-cli/internal/metrics"
	"github.com/KaramelBytes/dashwise-cli/internal/report"
	"github.com/KaramelBytes/dashwise-cli/internal/suggest"
	"github.com/KaramelBytes/dashwise-cli/internal/utils"
)

// Download names offered by the dashboard.
const (
	TemplateFileName = "gym_template.xlsx"
	DemoFileName     = "current_gym_demo_data.xlsx"
)

const (
	flashWelcome = "Upload your Excel file or use demo data to get started."
	flashDemo    = "Realistic demo data loaded successfully."
	flashUpload  = "File uploaded successfully."
)

// Options configures the pipeline run for every request.
type Options struct {
	Location   *time.Location
	Load       dataset.LoadOptions
	Suggest    suggest.Options
	DemoDays   int
	SessionTTL time.Duration
	// Seed drives suggestion rotation and demo data; 0 seeds from the clock.
	Seed int64
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Server serves the dashboard.
type Server struct {
	opt      Options
	log      *zap.Logger
	sessions *SessionStore
	metrics  *Metrics
	router   chi.Router

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New builds a server and its routes.
func New(opt Options, log *zap.Logger) *Server {
	if opt.Location == nil {
		opt.Location = time.UTC
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.DemoDays <= 0 {
		opt.DemoDays = demo.DefaultDays
	}
	if opt.Seed == 0 {
		opt.Seed = time.Now().UnixNano()
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		opt:      opt,
		log:      log,
		sessions: NewSessionStore(opt.SessionTTL, opt.Now),
		rng:      rand.New(rand.NewSource(opt.Seed)),
	}
	s.metrics = newMetrics(func() float64 { return float64(s.sessions.Len()) })
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log, s.metrics))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Get("/", s.handleDashboard)
	r.Post("/upload", s.handleUpload)
	r.Post("/demo", s.handleDemo)
	r.Get("/demo.xlsx", s.handleDemoDownload)
	r.Get("/template.xlsx", s.handleTemplate)
	r.Post("/suggestion/next", s.handleNextSuggestion)
	r.Get("/charts/{name}", s.handleChart)
	r.Get("/api/report", s.handleReportJSON)
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore { return s.sessions }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// analysis is the result of one pipeline run.
type analysis struct {
	doc     *report.Document
	outcome string
}

// analyze runs load -> compute -> format on the session's workbook.
func (s *Server) analyze(sess Session) (analysis, error) {
	if !sess.HasData() {
		return analysis{outcome: outcomeNoData}, nil
	}
	raw, err := dataset.Load(sess.FileName, sess.Payload, s.opt.Load)
	if err != nil {
		return analysis{outcome: outcomeLoadError}, err
	}
	tbl, snap, err := metrics.Process(raw, s.opt.Location)
	if err != nil {
		return analysis{outcome: outcomeProcessErr}, err
	}
	list := suggest.Generate(tbl, &snap, s.opt.Suggest)
	a := analysis{doc: report.NewDocument(tbl, snap, list), outcome: outcomeOK}
	if tbl.Empty() {
		a.outcome = outcomeEmpty
	}
	return a, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	page := report.Page{HasDemo: sess.IsDemo, Message: sess.Flash}

	a, err := s.analyze(sess)
	s.metrics.renders.WithLabelValues(a.outcome).Inc()
	switch {
	case err != nil:
		s.log.Warn("render failed", zap.String("session", sess.ID), zap.String("file", sess.FileName), zap.Error(err))
		page.Error = err.Error()
	case a.doc == nil:
		if page.Message == "" {
			page.Message = flashWelcome
		}
	}
	shown := sess.Flash
	cur, _ := s.sessions.Update(sess.ID, func(st *Session) {
		if st.Flash == shown {
			st.Flash = ""
		}
		if a.doc == nil {
			return
		}
		n := len(a.doc.Suggestions)
		if !st.HasRotation || !st.Rotation.Valid(n) {
			s.draw(func(rng *rand.Rand) { st.Rotation = suggest.Initial(rng, n) })
			st.HasRotation = true
		}
	})
	if a.doc != nil {
		idx := cur.Rotation.Index(len(a.doc.Suggestions))
		page.Doc = a.doc
		page.Current = &a.doc.Suggestions[idx]
		page.Position = idx + 1
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderHTML(w, page); err != nil {
		s.log.Error("render html", zap.Error(err))
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	limit := s.opt.Load.MaxBytes
	if limit > 0 {
		// Multipart framing adds a little on top of the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "expected a multipart form with a \"file\" field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var src io.Reader = file
	if limit > 0 {
		src = io.LimitReader(file, limit+1)
	}
	payload, err := io.ReadAll(src)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.attach(sess.ID, header.Filename, payload, false, flashUpload)
	s.metrics.uploads.WithLabelValues("upload").Inc()
	s.log.Info("workbook uploaded", zap.String("session", sess.ID), zap.String("file", header.Filename), zap.Int("bytes", len(payload)))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	start := s.opt.Now().In(s.opt.Location).AddDate(0, 0, -s.opt.DemoDays)
	var payload []byte
	var err error
	s.draw(func(rng *rand.Rand) {
		payload, err = demo.Workbook(rng, demo.Options{Days: s.opt.DemoDays, Start: start})
	})
	if err != nil {
		s.log.Error("demo workbook", zap.Error(err))
		http.Error(w, "could not generate demo data", http.StatusInternalServerError)
		return
	}
	s.attach(sess.ID, DemoFileName, payload, true, flashDemo)
	s.metrics.uploads.WithLabelValues("demo").Inc()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDemoDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if !sess.IsDemo || !sess.HasData() {
		http.NotFound(w, r)
		return
	}
	serveXLSX(w, DemoFileName, sess.Payload)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	payload, err := demo.TemplateWorkbook(s.opt.Now().In(s.opt.Location))
	if err != nil {
		s.log.Error("template workbook", zap.Error(err))
		http.Error(w, "could not build template", http.StatusInternalServerError)
		return
	}
	serveXLSX(w, TemplateFileName, payload)
}

func (s *Server) handleNextSuggestion(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	a, err := s.analyze(sess)
	if err == nil && a.doc != nil {
		n := len(a.doc.Suggestions)
		s.sessions.Update(sess.ID, func(st *Session) {
			s.draw(func(rng *rand.Rand) {
				if st.HasRotation {
					st.Rotation = st.Rotation.Advance(rng, n)
				} else {
					st.Rotation = suggest.Initial(rng, n)
				}
			})
			st.HasRotation = true
		})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, err := report.ParseChartName(chi.URLParam(r, "name"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	sess := s.session(w, r)
	a, err := s.analyze(sess)
	var charts report.Charts
	if err == nil && a.doc != nil {
		charts = a.doc.Charts
	}
	var buf bytes.Buffer
	if err := report.RenderChart(&buf, name, charts); err != nil {
		s.log.Error("render chart", zap.String("chart", string(name)), zap.Error(err))
		http.Error(w, "could not render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	a, err := s.analyze(sess)
	switch {
	case err != nil:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case a.doc == nil:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data loaded"})
	default:
		writeJSON(w, http.StatusOK, a.doc)
	}
}

// attach replaces the session's workbook and resets its rotation.
func (s *Server) attach(id, name string, payload []byte, isDemo bool, flash string) {
	s.sessions.Update(id, func(st *Session) {
		st.FileName = name
		st.Payload = payload
		st.IsDemo = isDemo
		st.HasRotation = false
		st.Flash = flash
	})
}

// draw serializes access to the shared random source.
func (s *Server) draw(f func(*rand.Rand)) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	f(s.rng)
}

func serveXLSX(w http.ResponseWriter, name string, payload []byte) {
	w.Header().Set("Content-Type", dataset.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := utils.PrettyJSON(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
