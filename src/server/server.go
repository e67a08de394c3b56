package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"macro-observer/src/analysis"
	"macro-observer/src/data_source/dashboard"
	"macro-observer/src/interfaces"
	"macro-observer/src/loader"
	"macro-observer/src/logger"
	"macro-observer/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine
	http   *http.Server

	controller *loader.LoadController
	stocks     interfaces.IStockSource
	db         interfaces.IDatabase
	viewOpts   analysis.ViewOptions
	loadWait   time.Duration

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	direct     chan directMessage
	done       chan struct{}
	stopOnce   sync.Once

	connMutex   sync.RWMutex
	connections int
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

// NewDashboardServer builds the HTTP surface over controller. stocks and db may be nil.
func NewDashboardServer(cfg *models.MConfig, controller *loader.LoadController, stocks interfaces.IStockSource, db interfaces.IDatabase, log *logger.Logger) *DashboardServer {
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:     cfg,
		Logger:     log,
		engine:     gin.New(),
		controller: controller,
		stocks:     stocks,
		db:         db,
		viewOpts: analysis.ViewOptions{
			TickSteps:      cfg.Dashboard.TickSteps,
			DivergingLimit: cfg.Dashboard.DivergingLimit,
		},
		loadWait:   time.Duration(cfg.Network.RequestTimeout*(cfg.Network.MaxRetries+2)) * time.Second,
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage),
		done:       make(chan struct{}),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	controller.Subscribe(s.onSnapshot)
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/config", s.getConfig)

	dash := api.Group("/dashboard")
	dash.GET("", s.getView)
	dash.GET("/status", s.getStatus)
	dash.POST("/reload", s.postReload)
	dash.GET("/state", s.getState)
	dash.POST("/reset", s.postReset)
	dash.GET("/table", s.getTable)
	dash.POST("/sort", s.postSort)
	dash.POST("/page", s.postPage)
	dash.POST("/selection/toggle", s.postToggle)
	dash.GET("/summary", s.getSummary)
	dash.GET("/charts/gdp", s.getGDPChart)
	dash.GET("/charts/regions", s.getRegionChart)
	dash.GET("/charts/trade", s.getTradeChart)
	dash.GET("/charts/fdi", s.getFDIChart)

	api.GET("/stocks/:symbol", s.getStock)
	api.GET("/snapshots", s.getSnapshots)
	api.GET("/snapshots/:id", s.getSnapshot)

	s.engine.GET("/preview", s.previewDashboard)
	s.engine.GET("/preview/gdp", s.previewGDP)
	s.engine.GET("/preview/regions", s.previewRegions)

	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the router, mainly for tests.
func (s *DashboardServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.runHub()

	s.http = &http.Server{Addr: addr, Handler: s.engine}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) Stop() error {
	s.stopOnce.Do(func() { close(s.done) })
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	snap := s.controller.Snapshot()
	s.connMutex.RLock()
	connections := s.connections
	s.connMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": connections,
		"loaded":      snap.Loaded(),
		"load_id":     snap.Status.LoadID,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getConfig(c *gin.Context) {
	fields := make([]string, len(analysis.AllSortFields))
	for i, f := range analysis.AllSortFields {
		fields[i] = string(f)
	}
	c.JSON(http.StatusOK, gin.H{
		"name":            s.Config.Name,
		"page_size":       analysis.PageSize,
		"selection_size":  analysis.DefaultSelectionSize,
		"tick_steps":      s.viewOpts.TickSteps,
		"diverging_limit": s.viewOpts.DivergingLimit,
		"sort_fields":     fields,
		"fetch_defaults":  s.Config.DefaultFetchParams(),
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Snapshot().Status)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postReload(c *gin.Context) {
	var params models.MFetchParams
	if !bindOptionalJSON(c, &params) {
		return
	}
	if err := dashboard.ValidateParams(params); err != nil {
		writeError(c, err)
		return
	}
	id, err := s.reload(params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"load_id": id, "status": s.controller.Snapshot().Status})
}

// reload runs one load detached from the caller's connection.
func (s *DashboardServer) reload(params models.MFetchParams) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.loadWait)
	defer cancel()
	return s.controller.Load(ctx, params)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getView(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis.BuildDashboardView(snap.Store, snap.State, s.viewOpts))
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getState(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": snap.State, "status": snap.Status})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getTable(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newTableResponse(analysis.BuildTable(snap.Store, snap.State)))
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postSort(c *gin.Context) {
	var req struct {
		Field string `json:"field"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err))
		return
	}
	field, err := analysis.ParseSortField(req.Field)
	if err != nil {
		writeError(c, err)
		return
	}
	s.applyAndRespond(c, analysis.SortBy{Field: field})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postPage(c *gin.Context) {
	var req struct {
		Page int `json:"page"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err))
		return
	}
	s.applyAndRespond(c, analysis.GoToPage{Page: req.Page})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postToggle(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err))
		return
	}
	s.applyAndRespond(c, analysis.ToggleCountry{Code: strings.ToUpper(strings.TrimSpace(req.Code))})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postReset(c *gin.Context) {
	s.applyAndRespond(c, analysis.Reset{})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) applyAndRespond(c *gin.Context, action analysis.Action) {
	if _, err := s.controller.Apply(action); err != nil {
		writeError(c, err)
		return
	}
	snap := s.controller.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"state": snap.State,
		"table": newTableResponse(analysis.BuildTable(snap.Store, snap.State)),
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getSummary(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSummaryResponse(analysis.BuildSummary(snap.Store)))
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getGDPChart(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis.BuildGDPChart(snap.Store, snap.State, s.viewOpts.TickSteps))
}

func (s *DashboardServer) getRegionChart(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis.BuildRegionChart(snap.Store))
}

func (s *DashboardServer) getTradeChart(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis.BuildTradeChart(snap.Store, s.viewOpts.DivergingLimit))
}

func (s *DashboardServer) getFDIChart(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis.BuildFDIChart(snap.Store, s.viewOpts.DivergingLimit))
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getStock(c *gin.Context) {
	if s.stocks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stock source disabled"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.loadWait)
	defer cancel()

	snapshot, err := s.stocks.FetchSnapshot(ctx, c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newStockResponse(snapshot))
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getSnapshots(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive disabled"})
		return
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		writeError(c, err)
		return
	}
	list, err := s.db.ListSnapshots(limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []models.MSnapshotInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": list})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getSnapshot(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive disabled"})
		return
	}
	bundle, err := s.db.GetSnapshot(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// -----------------------------------------------------------------------------

// loadedSnapshot writes 503 and returns false before the first successful load.
func (s *DashboardServer) loadedSnapshot(c *gin.Context) (loader.Snapshot, bool) {
	snap := s.controller.Snapshot()
	if !snap.Loaded() {
		writeError(c, loader.ErrNotLoaded)
		return snap, false
	}
	return snap, true
}
