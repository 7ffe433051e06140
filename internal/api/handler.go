package api

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhegg/addon-download-count-fetcher/pkg/sink"
)

type TotalResponse struct {
	Name      string    `json:"name"`
	Count     int64     `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

type Handler struct {
	totals *sink.MemorySink
}

func NewHandler(totals *sink.MemorySink) *Handler {
	return &Handler{totals: totals}
}

func SetupRoutes(app *fiber.App, h *Handler) {
	app.Get("/health", h.handleHealth)
	app.Get("/api/totals", h.handleTotals)
	app.Get("/api/totals/:name", h.handleTotal)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) handleTotals(c *fiber.Ctx) error {
	latest := h.totals.Latest()
	resp := make([]TotalResponse, 0, len(latest))
	for _, t := range latest {
		resp = append(resp, TotalResponse{Name: t.AddonName, Count: t.Count, Timestamp: t.Timestamp})
	}
	return c.JSON(resp)
}

func (h *Handler) handleTotal(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid addon name"})
	}
	for _, t := range h.totals.Latest() {
		if t.AddonName == name {
			return c.JSON(TotalResponse{Name: t.AddonName, Count: t.Count, Timestamp: t.Timestamp})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no total for addon"})
}
