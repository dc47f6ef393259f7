// Package server exposes the dashboard over HTTP.
package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KaramelBytes/trafficdash/internal/dashboard"
)

// BuildFunc produces a fresh page. It is called once per request so sessions share no state.
type BuildFunc func() (*dashboard.Page, error)

type handler struct {
	build BuildFunc
	log   *zap.Logger
}

// NewRouter wires the dashboard, chart, and API routes.
func NewRouter(build BuildFunc, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{build: build, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "trafficdash"})
	})
	r.GET("/", h.dashboard)
	r.GET("/chart/clustering.png", h.chart)

	api := r.Group("/api/v1")
	{
		api.GET("/views", h.views)
		api.GET("/points", h.points)
		api.GET("/profile", h.profile)
	}
	return r
}

// page builds the page or writes an error response and returns nil.
func (h *handler) page(c *gin.Context, html bool) *dashboard.Page {
	p, err := h.build()
	if err == nil {
		return p
	}
	_ = c.Error(err)
	code := statusFor(err)
	if html {
		c.Data(code, "text/plain; charset=utf-8", []byte(err.Error()))
		c.Abort()
		return nil
	}
	failure(c, code, err.Error())
	return nil
}

func (h *handler) dashboard(c *gin.Context) {
	p := h.page(c, true)
	if p == nil {
		return
	}
	var buf bytes.Buffer
	if err := dashboard.Render(&buf, p); err != nil {
		_ = c.Error(err)
		c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(err.Error()))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handler) chart(c *gin.Context) {
	p := h.page(c, true)
	if p == nil {
		return
	}
	if p.Cluster.Chart == nil {
		c.Data(http.StatusNotFound, "text/plain; charset=utf-8", []byte(p.Cluster.Err.Error()))
		return
	}
	c.Data(http.StatusOK, "image/png", p.Cluster.Chart.PNG)
}

func (h *handler) views(c *gin.Context) {
	p := h.page(c, false)
	if p == nil {
		return
	}
	success(c, toViewsDTO(p.RunID, p.Source, p.Rows, p.Views))
}

func (h *handler) points(c *gin.Context) {
	p := h.page(c, false)
	if p == nil {
		return
	}
	success(c, toPointDTOs(p.Points))
}

func (h *handler) profile(c *gin.Context) {
	p := h.page(c, false)
	if p == nil {
		return
	}
	success(c, p.Profile)
}
