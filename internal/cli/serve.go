package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/radiant/pkg/buildinfo"
	"github.com/matzehuels/radiant/pkg/config"
	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/events"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/radial"
	"github.com/matzehuels/radiant/pkg/render/dot"
	"github.com/matzehuels/radiant/pkg/render/svg"
	"github.com/matzehuels/radiant/pkg/selection"
	"github.com/matzehuels/radiant/pkg/viewport"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	defaultCategory = "default"
	maxDocumentSize = 4 << 20
	shutdownTimeout = 5 * time.Second
)

type serveOpts struct {
	addr     string
	category string
	watch    bool
	width    float64
	height   float64
	data     dataFlags
	content  contentFlags
}

// serveCommand creates the serve command, which exposes one controller
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: defaultAddr, category: defaultCategory}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a radial navigator over HTTP",
		Long: `Serve a radial navigator over HTTP.

Routes:
  GET  /frame            current frame as JSON
  GET  /frame.svg        current frame as SVG
  GET  /frame.dot        current frame as DOT
  GET  /selection        current and previous selection
  POST /select/{id}      select a node and wait for the transition
  POST /back, /up        navigate to the previous node or the parent
  POST /resize           {"width": w, "height": h}
  PUT  /data             replace the hierarchy document (JSON, or TOML
                         with an application/toml content type)
  GET  /content/{id}     node content through the cache
  GET  /cache            content cache statistics
  GET  /events           server-sent notifications
  GET  /metrics          Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.category, "category", opts.category, "category to load from the data source")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload --file when it changes")
	cmd.Flags().Float64Var(&opts.width, "width", defaultWidth, "initial container width")
	cmd.Flags().Float64Var(&opts.height, "height", defaultHeight, "initial container height")
	opts.data.register(cmd)
	opts.content.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, opts serveOpts) error {
	logger := loggerFromContext(ctx)
	if opts.watch && opts.data.file == "" {
		return fmt.Errorf("--watch requires --file")
	}

	data, closeData, err := opts.data.open(ctx)
	if err != nil {
		return err
	}
	defer closeData()
	src, closeContent, err := opts.content.open(ctx)
	if err != nil {
		return err
	}
	defer closeContent()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	defer newMetrics(reg).install()()

	ctrl, err := radial.New(radial.Options{
		Config:    cfg,
		Data:      data,
		Content:   src,
		Container: viewport.Size{Width: opts.width, Height: opts.height},
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer ctrl.Destroy()

	sp := newSpinnerWithContext(ctx, "Loading "+opts.category+"...")
	sp.Start()
	if err := ctrl.Init(ctx, opts.category); err != nil {
		sp.StopWithError("Could not load " + opts.category)
		return err
	}
	sp.StopWithSuccess("Loaded " + opts.category)
	f := ctrl.Frame()
	printStats(len(f.Nodes), len(f.Links), string(f.Dimensions.Breakpoint))

	if opts.watch {
		w, err := watchDocument(opts.data.file, 0, logger, ctrl.SetData)
		if err != nil {
			return err
		}
		defer w.Close()
		printDetail("watching %s", opts.data.file)
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newServer(ctrl, logger, reg).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printKeyValue("listening", "http://"+opts.addr)
	printNextStep("Open the diagram", "curl http://"+opts.addr+"/frame.svg")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	printInfo("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// =============================================================================
// HTTP API
// =============================================================================

// server adapts a controller to HTTP.
type server struct {
	ctrl    *radial.Controller
	logger  *log.Logger
	metrics http.Handler
}

func newServer(ctrl *radial.Controller, logger *log.Logger, gatherer prometheus.Gatherer) *server {
	return &server{
		ctrl:    ctrl,
		logger:  logger,
		metrics: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.health)
	r.Get("/metrics", s.metrics.ServeHTTP)

	r.Get("/frame", s.frame)
	r.Get("/frame.svg", s.frameSVG)
	r.Get("/frame.dot", s.frameDOT)
	r.Get("/selection", s.selection)
	r.Post("/select/{id}", s.selectNode)
	r.Post("/back", s.navigate(s.ctrl.Back))
	r.Post("/up", s.navigate(s.ctrl.Up))
	r.Post("/resize", s.resize)
	r.Put("/data", s.setData)

	r.Get("/content/{id}", s.content)
	r.Get("/cache", s.cacheStats)
	r.Get("/events", s.events)
	return r
}

// requestLogger logs one line per request with its status and latency.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state": s.ctrl.State().String(),
		"build": buildinfo.Get(),
	})
}

func (s *server) frame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Frame())
}

func (s *server) frameSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg.Render(s.ctrl.Frame(), svg.WithColors(s.ctrl.Config().Colors), svg.WithInteraction()))
}

func (s *server) frameDOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = io.WriteString(w, dot.ToDOT(s.ctrl.Frame(), dot.Options{Colors: s.ctrl.Config().Colors}))
}

// selectionView is the JSON shape of a selection snapshot.
type selectionView struct {
	Current  string `json:"current"`
	Previous string `json:"previous"`
	State    string `json:"state"`
}

func (s *server) selectionView() selectionView {
	snap := s.ctrl.Selection()
	return selectionView{Current: snap.CurrentID(), Previous: snap.PreviousID(), State: snap.State.String()}
}

func (s *server) selection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.selectionView())
}

func (s *server) selectNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := rerrors.ValidateNodeID(id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.ctrl.Select(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.selectionView())
}

func (s *server) navigate(fn func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.selectionView())
	}
}

type resizeRequest struct {
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	ViewportWidth  float64 `json:"viewport_width,omitempty"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
}

func (s *server) resize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<10)).Decode(&req); err != nil {
		writeError(w, rerrors.Wrap(rerrors.ErrCodeInvalidInput, err, "decode resize request"))
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, rerrors.New(rerrors.ErrCodeInvalidInput, "width and height must be positive"))
		return
	}
	if req.ViewportWidth > 0 && req.ViewportHeight > 0 {
		s.ctrl.SetViewport(viewport.Size{Width: req.ViewportWidth, Height: req.ViewportHeight})
	}
	relaid := s.ctrl.ResizeNow(viewport.Size{Width: req.Width, Height: req.Height})
	writeJSON(w, http.StatusOK, map[string]any{
		"relayout":   relaid,
		"dimensions": s.ctrl.Dimensions(),
	})
}

func (s *server) setData(w http.ResponseWriter, r *http.Request) {
	body := io.LimitReader(r.Body, maxDocumentSize)
	read := hierarchy.ReadDocument
	if strings.Contains(r.Header.Get("Content-Type"), "toml") {
		read = hierarchy.ReadTOMLDocument
	}
	doc, err := read(body)
	if err != nil {
		writeError(w, rerrors.Wrap(rerrors.ErrCodeInvalidInput, err, "decode document"))
		return
	}
	if err := s.ctrl.SetData(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) content(w http.ResponseWriter, r *http.Request) {
	p, err := s.ctrl.Content(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) cacheStats(w http.ResponseWriter, r *http.Request) {
	cache := s.ctrl.Cache()
	if cache == nil {
		writeError(w, rerrors.New(rerrors.ErrCodeNotFound, "no content source configured"))
		return
	}
	writeJSON(w, http.StatusOK, cache.Stats())
}

// events streams notifications as server-sent events until the client
// disconnects.
func (s *server) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, rerrors.New(rerrors.ErrCodeInternal, "streaming unsupported"))
		return
	}
	listener, ch := events.Channel(32)
	unsubscribe := s.ctrl.Subscribe(listener)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-ch:
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data)
			flusher.Flush()
		}
	}
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// httpStatus maps an error kind to a response status.
func httpStatus(err error) int {
	if errors.Is(err, selection.ErrTransitioning) {
		return http.StatusConflict
	}
	code := rerrors.GetCode(err)
	if code.Input() {
		return http.StatusBadRequest
	}
	switch code {
	case rerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case rerrors.ErrCodeDestroyed:
		return http.StatusGone
	case rerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case rerrors.ErrCodeContentFetch, rerrors.ErrCodeDataFetch, rerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": rerrors.UserMessage(err)}
	if code := rerrors.GetCode(err); code != "" {
		body["kind"] = string(code)
	}
	writeJSON(w, httpStatus(err), body)
}
