package server

import (
	"cmp"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"narrator/pkg/analysis"
	"narrator/pkg/catalog"
	"narrator/pkg/flight"
	"narrator/pkg/generator"
	"narrator/pkg/history"
	"narrator/pkg/inference"
	"narrator/pkg/metrics"
	"narrator/pkg/queue"
	"narrator/pkg/schema"
)

const (
	defaultAnalysisTTL  = 30 * time.Minute
	defaultInFlightTTL  = 30 * time.Minute
	defaultQueueSize    = 100
	defaultQueueWorkers = 4
)

type Options struct {
	Catalog   *catalog.Catalog
	Analyzer  *analysis.Analyzer
	Generator *generator.Generator
	History   *history.Store
	// Queue runs generations. Nil starts a default queue over Generator.
	Queue *queue.Queue
	// Keys are used for any provider a request brings no key for.
	Keys        inference.Keys
	Models      map[inference.Provider]string
	AnalysisTTL time.Duration
	InFlightTTL time.Duration
}

type Server struct {
	Echo      *echo.Echo
	Ctx       context.Context
	Catalog   *catalog.Catalog
	Analyzer  *analysis.Analyzer
	Generator *generator.Generator
	History   *history.Store
	Queue     *queue.Queue

	keys        inference.Keys
	models      map[inference.Provider]string
	plans       *flight.Cache[string, schema.Plan]
	inFlight    *cache.Cache
	inFlightTTL time.Duration
}

func NewServer(ctx context.Context, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handleError

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(countRequests)

	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Analyzer == nil {
		opts.Analyzer = analysis.New(nil, opts.Catalog)
	}
	if opts.Generator == nil {
		opts.Generator = generator.New(generator.Options{Catalog: opts.Catalog})
	}
	if opts.Queue == nil {
		opts.Queue = queue.New(opts.Generator, defaultQueueSize, defaultQueueWorkers)
		opts.Queue.Start()
	}
	inFlightTTL := cmp.Or(opts.InFlightTTL, defaultInFlightTTL)

	s := &Server{
		Echo:        e,
		Ctx:         ctx,
		Catalog:     opts.Catalog,
		Analyzer:    opts.Analyzer,
		Generator:   opts.Generator,
		History:     opts.History,
		Queue:       opts.Queue,
		keys:        opts.Keys,
		models:      opts.Models,
		plans:       flight.NewCache[string, schema.Plan](cmp.Or(opts.AnalysisTTL, defaultAnalysisTTL)),
		inFlight:    cache.New(inFlightTTL, time.Minute),
		inFlightTTL: inFlightTTL,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)
	s.Echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := s.Echo.Group("/api")
	api.GET("/catalog", s.handleGetCatalog)
	api.GET("/length", s.handleGetLength)
	api.GET("/history", s.handleGetHistory)
	api.POST("/analyze", s.handlePostAnalyze)
	api.POST("/generate", s.handlePostGenerate)
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")
	err := s.Echo.Shutdown(ctx)
	s.Queue.Stop()
	return err
}

func countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		status := c.Response().Status
		if err != nil && !c.Response().Committed {
			status = http.StatusInternalServerError
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}
		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
		return err
	}
}
