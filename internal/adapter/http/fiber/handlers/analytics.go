package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/ports"
	"github.com/conutlabs/chiefops/internal/service/agent"
)

// AnalyticsHandler exposes the five engines plus the free-text endpoint.
type AnalyticsHandler struct {
	combos     ports.ComboService
	forecasts  ports.ForecastService
	expansion  ports.ExpansionService
	growth     ports.GrowthService
	staffing   ports.StaffingService
	dispatcher *agent.Dispatcher
	log        *zap.Logger
}

func NewAnalyticsHandler(
	combos ports.ComboService,
	forecasts ports.ForecastService,
	expansion ports.ExpansionService,
	growth ports.GrowthService,
	staffing ports.StaffingService,
	dispatcher *agent.Dispatcher,
	log *zap.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		combos:     combos,
		forecasts:  forecasts,
		expansion:  expansion,
		growth:     growth,
		staffing:   staffing,
		dispatcher: dispatcher,
		log:        log,
	}
}

// RegisterRoutes mounts the analytics API under /api/v1.
func (h *AnalyticsHandler) RegisterRoutes(app *fiber.App) {
	v1 := app.Group("/api/v1")
	v1.Post("/combo", h.Combo)
	v1.Post("/combo-compare", h.ComboCompare)
	v1.Post("/forecast", h.Forecast)
	v1.Post("/staffing", h.Staffing)
	v1.Post("/expansion", h.Expansion)
	v1.Post("/growth", h.Growth)
	v1.Post("/ask", h.Ask)
}

type ComboRequest struct {
	Branch           string  `json:"branch"`
	TopK             int     `json:"top_k"`
	IncludeModifiers bool    `json:"include_modifiers"`
	MinSupport       float64 `json:"min_support"`
	MinConfidence    float64 `json:"min_confidence"`
	MinLift          float64 `json:"min_lift"`
}

func clampTopK(k int) int {
	if k > 20 {
		return 20
	}
	if k < 0 {
		return 0
	}
	return k
}

func clampHorizon(h int) int {
	if h > 12 {
		return 12
	}
	if h < 0 {
		return 0
	}
	return h
}

func (r ComboRequest) params() ports.ComboParams {
	return ports.ComboParams{
		Branch:           r.Branch,
		TopK:             clampTopK(r.TopK),
		IncludeModifiers: r.IncludeModifiers,
		MinSupport:       r.MinSupport,
		MinConfidence:    r.MinConfidence,
		MinLift:          r.MinLift,
	}
}

func (h *AnalyticsHandler) Combo(c *fiber.Ctx) error {
	var req ComboRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	result, err := h.combos.Recommend(c.Context(), req.params())
	if err != nil {
		h.log.Error("Combo recommendation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute combo recommendations"})
	}
	return c.JSON(result)
}

func (h *AnalyticsHandler) ComboCompare(c *fiber.Ctx) error {
	var req ComboRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	result, err := h.combos.Compare(c.Context(), req.params())
	if err != nil {
		h.log.Error("Combo comparison failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compare combo engines"})
	}
	return c.JSON(result)
}

type ForecastRequest struct {
	Branch        string `json:"branch"`
	HorizonMonths int    `json:"horizon_months"`
}

func (h *AnalyticsHandler) Forecast(c *fiber.Ctx) error {
	var req ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Branch == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "branch is required"})
	}

	result, err := h.forecasts.ForecastBranchDemand(c.Context(), req.Branch, clampHorizon(req.HorizonMonths))
	if err != nil {
		h.log.Error("Forecast failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute forecast"})
	}
	return c.JSON(result)
}

type StaffingRequest struct {
	Branch string `json:"branch"`
	Shift  string `json:"shift"`
}

func (h *AnalyticsHandler) Staffing(c *fiber.Ctx) error {
	var req StaffingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Shift == "" {
		req.Shift = "morning"
	}

	result, err := h.staffing.RecommendStaffing(c.Context(), req.Branch, req.Shift)
	if err != nil {
		h.log.Error("Staffing lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute staffing context"})
	}
	return c.JSON(result)
}

type ExpansionRequest struct {
	Branch string `json:"branch"`
}

func (h *AnalyticsHandler) Expansion(c *fiber.Ctx) error {
	var req ExpansionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Branch == "" {
		req.Branch = domain.BranchAll
	}

	result, err := h.expansion.EvaluateExpansion(c.Context(), req.Branch)
	if err != nil {
		h.log.Error("Expansion evaluation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to evaluate expansion"})
	}
	return c.JSON(result)
}

type GrowthRequest struct {
	Branch string `json:"branch"`
}

func (h *AnalyticsHandler) Growth(c *fiber.Ctx) error {
	var req GrowthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Branch == "" {
		req.Branch = domain.BranchAll
	}

	result, err := h.growth.GrowthStrategy(c.Context(), req.Branch)
	if err != nil {
		h.log.Error("Growth analysis failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute growth strategy"})
	}
	return c.JSON(result)
}

type AskRequest struct {
	Question string `json:"question"`
}

func (h *AnalyticsHandler) Ask(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question is required"})
	}

	return c.JSON(h.dispatcher.Ask(c.Context(), req.Question))
}
