package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/xenking/md2pptx/internal/app"
	"github.com/xenking/md2pptx/internal/domain"
	"github.com/xenking/md2pptx/internal/manifest"
	"github.com/xenking/md2pptx/internal/metrics"
)

const maxBodyBytes = 16 << 20

type HTTPConfig struct {
	Addr      string
	RateRPS   float64
	RateBurst int

	// MaxBodyBytes caps request bodies; zero means 16 MiB.
	MaxBodyBytes int64
}

type HTTPServer struct {
	tool      *app.PptTool
	provider  app.Provider
	plugin    *manifest.Plugin
	previewer domain.PresentationPreviewer
	gatherer  prometheus.Gatherer
	metrics   *metrics.Metrics
	logger    *slog.Logger
	cfg       HTTPConfig
	engine    *gin.Engine
}

func NewHTTPServer(
	cfg HTTPConfig,
	tool *app.PptTool,
	plugin *manifest.Plugin,
	previewer domain.PresentationPreviewer,
	gatherer prometheus.Gatherer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *HTTPServer {
	s := &HTTPServer{
		tool:      tool,
		plugin:    plugin,
		previewer: previewer,
		gatherer:  gatherer,
		metrics:   m,
		logger:    logger.With(slog.String("component", "http-server")),
		cfg:       cfg,
	}

	if s.cfg.MaxBodyBytes <= 0 {
		s.cfg.MaxBodyBytes = maxBodyBytes
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog(), s.rateLimit(), s.limitBody())

	r.GET("/health", s.health)
	r.GET("/service-info", s.serviceInfo)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.POST("/provider/validate", s.validateProvider)
		api.POST("/tools/:tool/invoke", s.invokeTool)
		api.POST("/convert", s.convert)
		api.POST("/preview", s.preview)
	}
	s.engine = r
	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "listening", slog.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.DebugContext(c.Request.Context(), "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// rateLimit applies one token bucket to every request. A non-positive rate
// disables limiting.
func (s *HTTPServer) rateLimit() gin.HandlerFunc {
	limit := rate.Limit(s.cfg.RateRPS)
	if s.cfg.RateRPS <= 0 {
		limit = rate.Inf
	}
	limiter := rate.NewLimiter(limit, max(s.cfg.RateBurst, 1))
	return func(c *gin.Context) {
		if limiter.Allow() {
			c.Next()
			return
		}
		if s.metrics != nil {
			s.metrics.RateLimited.WithLabelValues("http").Inc()
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	}
}

// limitBody caps every request body, JSON bodies included.
func (s *HTTPServer) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes)
		c.Next()
	}
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type toolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []parameterInfo `json:"parameters"`
}

type parameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s *HTTPServer) serviceInfo(c *gin.Context) {
	var tools []toolInfo
	for _, name := range s.plugin.ToolNames() {
		tool, _ := s.plugin.Tool(name)
		info := toolInfo{Name: name, Description: tool.Description.Human.String()}
		for _, p := range tool.Parameters {
			info.Parameters = append(info.Parameters, parameterInfo{
				Name:        p.Name,
				Type:        p.Type,
				Required:    p.Required,
				Default:     p.DefaultString(),
				Description: p.HumanDescription.String(),
			})
		}
		tools = append(tools, info)
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    s.plugin.Name,
		"label":   s.plugin.Label.String(),
		"version": s.plugin.Version,
		"tools":   tools,
	})
}

type validateRequest struct {
	Credentials map[string]any `json:"credentials"`
}

func (s *HTTPServer) validateProvider(c *gin.Context) {
	var req validateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := s.provider.ValidateCredentials(c.Request.Context(), req.Credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

type invokeRequest struct {
	Parameters map[string]any `json:"parameters"`
}

// invokeTool streams the tool response as newline-delimited JSON envelopes.
func (s *HTTPServer) invokeTool(c *gin.Context) {
	if c.Param("tool") != app.ToolName {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrUnknownTool.Error()})
		return
	}
	var req invokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)
	enc := json.NewEncoder(c.Writer)
	for msg := range s.tool.Invoke(c.Request.Context(), req.Parameters) {
		if err := enc.Encode(msg); err != nil {
			s.logger.WarnContext(c.Request.Context(), "write tool message", slog.String("error", err.Error()))
			return
		}
		c.Writer.Flush()
	}
}

// convert accepts either a JSON parameter object or a raw Markdown body with
// title and theme in the query string, and answers with the deck itself.
func (s *HTTPServer) convert(c *gin.Context) {
	params, err := s.convertParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var text string
	for msg := range s.tool.Invoke(c.Request.Context(), params) {
		switch msg.Type {
		case domain.ToolMessageText:
			text = msg.Text
		case domain.ToolMessageBlob:
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", msg.Meta.Filename))
			c.Data(http.StatusOK, msg.Meta.MimeType, msg.Blob)
			return
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": text})
}

func (s *HTTPServer) convertParams(c *gin.Context) (map[string]any, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var params map[string]any
		if err := c.ShouldBindJSON(&params); err != nil {
			return nil, err
		}
		return params, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return map[string]any{
		domain.ParamMarkdownContent: string(body),
		domain.ParamTitle:           c.Query(domain.ParamTitle),
		domain.ParamTheme:           c.Query(domain.ParamTheme),
	}, nil
}

func (s *HTTPServer) preview(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty body"})
		return
	}
	slides, err := s.previewer.Preview(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slides": slides})
}
