package api

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/assets"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/chart"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/dashboard"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/dataset"
)

const mapWarningHeader = "X-Map-Warning"

type Handler struct {
	svc    *dashboard.Service
	charts *chart.Renderer
	assets *assets.Store
}

func NewHandler(svc *dashboard.Service, charts *chart.Renderer, store *assets.Store) *Handler {
	return &Handler{
		svc:    svc,
		charts: charts,
		assets: store,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/modes", h.getModes)
	api.GET("/context", h.getContext)
	api.GET("/districts", h.getDistricts)
	api.GET("/districts/:district/overview", h.getOverview)
	api.GET("/districts/:district/comparison", h.getComparison)
	api.GET("/districts/:district/charts/:chart", h.getChart)
	api.GET("/maps/elevation", h.getElevationMap)
	api.GET("/maps/districts/:district", h.getDistrictMap)
	api.GET("/maps/districts/:district/ndvi", h.getNdviMap)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getModes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modes": dashboard.Modes()})
}

func (h *Handler) getContext(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.RegionalContext())
}

func (h *Handler) getDistricts(c *gin.Context) {
	table := dashboard.Table(c.DefaultQuery("table", string(dashboard.TableBinary)))
	if table != dashboard.TableBinary && table != dashboard.TableNdvi {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "table must be binary or ndvi",
		})
		return
	}

	names, err := h.svc.Districts(c.Request.Context(), table)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": table, "districts": names})
}

func (h *Handler) getOverview(c *gin.Context) {
	view, err := h.svc.Overview(c.Request.Context(), c.Param("district"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) getComparison(c *gin.Context) {
	view, err := h.svc.Comparison(c.Request.Context(), c.Param("district"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) getChart(c *gin.Context) {
	kind, ok := chart.ParseKind(c.Param("chart"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "chart must be suitability, ndvi or ndvi-area",
		})
		return
	}

	ds, err := h.svc.Dataset(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	png, err := h.charts.Render(ds, kind, c.Param("district"))
	if err != nil {
		if errors.Is(err, chart.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no data for district"})
			return
		}
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) getElevationMap(c *gin.Context) {
	h.serveMap(c, h.assets.Elevation)
}

func (h *Handler) getDistrictMap(c *gin.Context) {
	district := c.Param("district")
	h.serveMap(c, func() (string, error) {
		return h.assets.DistrictMap(district)
	})
}

func (h *Handler) getNdviMap(c *gin.Context) {
	district := c.Param("district")
	h.serveMap(c, func() (string, error) {
		return h.assets.NdviOverlay(district)
	})
}

// serveMap streams the image file, or a placeholder image with a warning
// header when it is missing.
func (h *Handler) serveMap(c *gin.Context, resolve func() (string, error)) {
	path, err := resolve()
	if err == nil {
		c.File(path)
		return
	}

	var notFound *assets.AssetNotFoundError
	if !errors.As(err, &notFound) {
		h.fail(c, err)
		return
	}

	png, err := h.charts.Placeholder()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header(mapWarningHeader, chart.PlaceholderMessage+": "+filepath.Base(notFound.Path))
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var loadErr *dataset.DataLoadError
	switch {
	case errors.Is(err, dashboard.ErrUnknownDistrict):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &loadErr):
		slog.Error("dataset unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset unavailable"})
	default:
		slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
