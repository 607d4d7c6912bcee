package filter

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// stateMessage is the text shown for each response state
func stateMessage(state core.State) string {
	switch state {
	case core.StateEmpty:
		return "Please enter a message to classify."
	case core.StateSpam:
		return "Spam Message"
	default:
		return "Not Spam"
	}
}

// HTTPFilter serves the classifier over HTTP: an HTML form and a JSON API
type HTTPFilter struct {
	service *core.ClassifierService
	logger  *zap.Logger
	cfg     config.HTTPConfig
	router  *chi.Mux
	server  *http.Server
}

// NewHTTPFilter creates a new HTTP frontend
func NewHTTPFilter(service *core.ClassifierService, logger *zap.Logger, cfg config.HTTPConfig) *HTTPFilter {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	f := &HTTPFilter{
		service: service,
		logger:  logger,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	f.setupRoutes()
	return f
}

func (f *HTTPFilter) setupRoutes() {
	f.router.Use(middleware.RequestID)
	f.router.Use(middleware.RealIP)
	f.router.Use(f.requestLogger)
	f.router.Use(middleware.Recoverer)
	f.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: f.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	if f.cfg.MaxBodyBytes > 0 {
		f.router.Use(middleware.RequestSize(f.cfg.MaxBodyBytes))
	}

	f.router.Get("/health", f.handleHealth)
	f.router.Get("/", f.handleIndex)
	f.router.Post("/", f.handleForm)
	f.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/classify", f.handleClassify)
		r.Post("/normalize", f.handleNormalize)
	})
}

// Handler returns the HTTP handler of the frontend
func (f *HTTPFilter) Handler() http.Handler {
	return f.router
}

// Start binds the listen address and serves in the background
func (f *HTTPFilter) Start() error {
	ln, err := net.Listen("tcp", f.cfg.ListenAddress)
	if err != nil {
		return err
	}

	f.server = &http.Server{
		Handler:      f.router,
		ReadTimeout:  f.cfg.ReadTimeout,
		WriteTimeout: f.cfg.WriteTimeout,
	}

	f.logger.Info("HTTP frontend starting", zap.String("address", ln.Addr().String()))

	go func() {
		if err := f.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down
func (f *HTTPFilter) Stop() error {
	if f.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), f.cfg.ShutdownTimeout)
	defer cancel()
	return f.server.Shutdown(ctx)
}

// ProcessMessage classifies a raw message
func (f *HTTPFilter) ProcessMessage(ctx context.Context, message string) (*core.Verdict, error) {
	return f.service.Classify(ctx, message)
}

type pageData struct {
	Message string
	State   core.State
	Result  string
}

func (f *HTTPFilter) handleIndex(w http.ResponseWriter, r *http.Request) {
	f.renderPage(w, http.StatusOK, pageData{})
}

func (f *HTTPFilter) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		status := bodyErrorStatus(err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	message := r.PostFormValue("message")

	verdict, err := f.service.Classify(r.Context(), message)
	if err != nil {
		f.logger.Error("Failed to classify message",
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())))
		http.Error(w, "classification failed", http.StatusInternalServerError)
		return
	}

	state := verdict.State()
	f.renderPage(w, http.StatusOK, pageData{
		Message: message,
		State:   state,
		Result:  stateMessage(state),
	})
}

func (f *HTTPFilter) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		f.logger.Error("Failed to render page", zap.Error(err))
	}
}

type messageRequest struct {
	Message string `json:"message"`
}

type classifyResponse struct {
	State        core.State `json:"state"`
	Message      string     `json:"message"`
	Label        core.Label `json:"label,omitempty"`
	RawLabel     *int       `json:"raw_label,omitempty"`
	IsSpam       bool       `json:"is_spam"`
	Normalized   string     `json:"normalized,omitempty"`
	Cached       bool       `json:"cached"`
	Model        string     `json:"model,omitempty"`
	ProcessingID string     `json:"processing_id,omitempty"`
	AnalyzedAt   time.Time  `json:"analyzed_at"`
}

func newClassifyResponse(v *core.Verdict) classifyResponse {
	resp := classifyResponse{
		State:      v.State(),
		Message:    stateMessage(v.State()),
		AnalyzedAt: v.AnalyzedAt,
	}
	if v.EmptyInput {
		return resp
	}
	rawLabel := v.RawLabel
	resp.Label = v.Label
	resp.RawLabel = &rawLabel
	resp.IsSpam = v.IsSpam()
	resp.Normalized = v.Normalized
	resp.Cached = v.Cached
	resp.Model = v.ModelUsed
	resp.ProcessingID = v.ProcessingID
	return resp
}

func (f *HTTPFilter) handleClassify(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMessageRequest(w, r)
	if !ok {
		return
	}

	verdict, err := f.service.Classify(r.Context(), req.Message)
	if err != nil {
		f.logger.Error("Failed to classify message",
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())))
		respondError(w, http.StatusInternalServerError, "classification failed")
		return
	}

	respondJSON(w, http.StatusOK, newClassifyResponse(verdict))
}

func (f *HTTPFilter) handleNormalize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMessageRequest(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"normalized": f.service.Normalize(req.Message),
	})
}

func (f *HTTPFilter) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"model":  f.service.ModelID(),
	})
}

// requestLogger logs every request through zap
func (f *HTTPFilter) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			f.logger.Debug("HTTP request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// decodeMessageRequest writes the error response itself when the body
// cannot be decoded
func decodeMessageRequest(w http.ResponseWriter, r *http.Request) (messageRequest, bool) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := bodyErrorStatus(err)
		if status == http.StatusRequestEntityTooLarge {
			respondError(w, status, "request body too large")
		} else {
			respondError(w, status, "invalid request body")
		}
		return req, false
	}
	return req, true
}

func bodyErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
