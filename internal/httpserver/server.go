// Package httpserver exposes the college dashboard as a JSON API.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tinytelemetry/campus/internal/dashboard"
	"github.com/tinytelemetry/campus/internal/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// Server provides an HTTP API over the dashboard's derived views.
// Every request works on its own dashboard.State; the data source is only read.
type Server struct {
	addr      string
	source    model.DataSource
	tracer    dashboard.Tracer
	log       *slog.Logger
	server    *http.Server
	listener  net.Listener
	errCh     chan error
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, source model.DataSource, tracer dashboard.Tracer, log *slog.Logger) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		source:    source,
		tracer:    tracer,
		log:       log,
		errCh:     make(chan error, 1),
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Handler builds the gin engine with every API route.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/sections", s.handleSections)
	api.GET("/sections/:section", s.handleTable)
	api.GET("/sections/:section/form", s.handleForm)
	api.POST("/sections/:section/records", s.handleCreate)
	api.PUT("/sections/:section/records/:id", s.handleUpdate)
	api.DELETE("/sections/:section/records/:id", s.handleDelete)

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
		close(s.errCh)
	}()
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Err delivers a serve failure, and is closed when serving stops.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) newState() *dashboard.State {
	return dashboard.New(s.source, s.tracer)
}

// stateFor returns a request state positioned on the :section param, writing
// a 404 when the section is unknown.
func (s *Server) stateFor(c *gin.Context) (*dashboard.State, bool) {
	section, err := model.ParseSection(c.Param("section"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	st := s.newState()
	if err := st.SelectSection(section); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return st, true
}

func recordID(c *gin.Context, raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id " + strconv.Quote(raw)})
		return 0, false
	}
	return id, true
}

func writeSourceError(c *gin.Context, err error) {
	if dashboard.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"sections": len(model.AllSections()),
	})
}

func (s *Server) handleSections(c *gin.Context) {
	st := s.newState()
	if active := c.Query("active"); active != "" {
		section, err := model.ParseSection(active)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		_ = st.SelectSection(section)
	}
	c.JSON(http.StatusOK, gin.H{"sections": st.SidebarEntries()})
}

func (s *Server) handleTable(c *gin.Context) {
	st, ok := s.stateFor(c)
	if !ok {
		return
	}
	table, err := st.Table(st.Active())
	if err != nil {
		writeSourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (s *Server) handleForm(c *gin.Context) {
	st, ok := s.stateFor(c)
	if !ok {
		return
	}

	if raw, present := c.GetQuery("id"); present {
		id, ok := recordID(c, raw)
		if !ok {
			return
		}
		if err := st.OpenEditByID(id); err != nil {
			writeSourceError(c, err)
			return
		}
	} else {
		st.OpenCreate()
	}

	fields, err := st.DialogFields()
	if err != nil {
		writeSourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":  st.DialogTitle(),
		"mode":   st.Mode().String(),
		"fields": fields,
	})
}

type submitRequest struct {
	Values map[string]string `json:"values"`
}

func bindSubmit(c *gin.Context) (map[string]string, bool) {
	var req submitRequest
	if c.Request.ContentLength == 0 {
		return nil, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return nil, false
	}
	return req.Values, true
}

func (s *Server) handleCreate(c *gin.Context) {
	st, ok := s.stateFor(c)
	if !ok {
		return
	}
	values, ok := bindSubmit(c)
	if !ok {
		return
	}
	st.OpenCreate()
	st.Submit(values)
	c.JSON(http.StatusAccepted, gin.H{"persisted": false, "trace": st.LastTrace()})
}

func (s *Server) handleUpdate(c *gin.Context) {
	st, ok := s.stateFor(c)
	if !ok {
		return
	}
	id, ok := recordID(c, c.Param("id"))
	if !ok {
		return
	}
	values, ok := bindSubmit(c)
	if !ok {
		return
	}
	if err := st.OpenEditByID(id); err != nil {
		writeSourceError(c, err)
		return
	}
	st.Submit(values)
	c.JSON(http.StatusAccepted, gin.H{"persisted": false, "trace": st.LastTrace()})
}

// handleDelete traces the request only; the id is not looked up.
func (s *Server) handleDelete(c *gin.Context) {
	st, ok := s.stateFor(c)
	if !ok {
		return
	}
	id, ok := recordID(c, c.Param("id"))
	if !ok {
		return
	}
	st.RequestDelete(id)
	c.JSON(http.StatusAccepted, gin.H{"persisted": false, "trace": st.LastTrace()})
}
