package cli

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillflow/pkg/buildinfo"
	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/export"
	"github.com/matzehuels/skillflow/pkg/observability"
	"github.com/matzehuels/skillflow/pkg/sink"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

const (
	maxDocumentBytes = 1 << 20
	shutdownTimeout  = 5 * time.Second
)

//go:embed web/index.html
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the landing page and the export API over HTTP",
		Long: `Start a stateless HTTP server.

Routes:
  GET  /                     landing page
  GET  /healthz              health check
  GET  /api/kinds            node kinds as JSON
  GET  /metrics              Prometheus metrics
  POST /api/export/{format}  render the posted skill document (png, json, svg, dot, yaml)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Server.Addr
			}
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+defaultServerAddr+")")
	return cmd
}

func runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)

	m := newMetrics()
	observability.SetExportHooks(observability.MultiExportHooks(observability.Export(), m))
	observability.SetSinkHooks(observability.MultiSinkHooks(observability.Sink(), m))

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(logger, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printInfo("Serving on %s", StyleLink.Render("http://"+addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown incomplete", "err", err)
			return srv.Close()
		}
		return nil
	}
}

// newRouter builds the HTTP routes. Every request works on its own project
// decoded from the request body, so handlers share no mutable state.
// A nil m disables /metrics.
func newRouter(logger *log.Logger, m *metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	if m != nil {
		r.Use(m.countRequests)
	}
	r.Use(middleware.Recoverer)

	r.Get("/", handleIndex)
	r.Get("/healthz", handleHealth)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.handler())
	}
	r.Route("/api", func(r chi.Router) {
		r.Get("/kinds", handleKinds)
		r.Post("/export/{format}", handleExport)
	})
	return r
}

// requestLogger attaches logger to the request context and logs one line
// per request at debug level.
func requestLogger(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), logger)))
			logger.Debug("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

type kindResponse struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func kindResponses() []kindResponse {
	kinds := workflow.Kinds()
	out := make([]kindResponse, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, kindResponse{
			Name:        k.String(),
			Label:       k.Label(),
			Color:       k.Color(),
			Description: k.DefaultDescription(),
		})
	}
	return out
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, struct {
		Kinds   []kindResponse
		Version string
	}{kindResponses(), buildinfo.Version})
	if err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render landing page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func handleKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, kindResponses())
}

func handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "read body"))
		return
	}
	p, err := export.DecodeProject(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	mem := sink.NewMemorySink()
	a, err := export.NewExporter(mem).Export(r.Context(), p, format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Name}))
	w.Header().Set("X-Skillflow-Notice", format.Notice())
	_, _ = w.Write(a.Data)
}

type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: apperrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
