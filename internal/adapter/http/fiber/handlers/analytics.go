package handlers

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/analytics"
	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/observability/telemetry"
	"github.com/voltgrid/opsconsole/internal/ports"
)

// AnalyticsHandler serves the dashboard views. Every authenticated operator
// gets their own orchestrator so filter state is private to the session.
type AnalyticsHandler struct {
	snapshots ports.SnapshotProvider
	log       *zap.Logger

	mu       sync.Mutex
	sessions map[string]*analytics.Orchestrator
}

func NewAnalyticsHandler(snapshots ports.SnapshotProvider, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		snapshots: snapshots,
		log:       log,
		sessions:  make(map[string]*analytics.Orchestrator),
	}
}

func (h *AnalyticsHandler) orchestratorFor(c *fiber.Ctx) *analytics.Orchestrator {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		userID = "anonymous"
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.sessions[userID]
	if !ok {
		o = analytics.NewOrchestrator(h.log)
		h.sessions[userID] = o
	}
	return o
}

// refresh fetches snapshots for the orchestrator's current filter state. The
// generation captured before the fetch guards against a filter change racing
// the fetch: a stale delivery is simply dropped.
func (h *AnalyticsHandler) refresh(c *fiber.Ctx, o *analytics.Orchestrator) error {
	gen := o.Generation()
	filters := o.Filters()

	usage, err := h.snapshots.UsageSnapshot(c.Context())
	if err != nil {
		return err
	}
	utilization, err := h.snapshots.Utilization(c.Context(), filters.DateRange)
	if err != nil {
		return err
	}
	userActivity, err := h.snapshots.UserActivity(c.Context(), filters.DateRange)
	if err != nil {
		return err
	}

	o.ApplySnapshots(gen, analytics.Snapshots{
		Usage:        usage,
		Utilization:  utilization,
		UserActivity: userActivity,
	})
	return nil
}

// FilterRequest carries a partial filter update; absent fields keep their
// current value.
type FilterRequest struct {
	Metric         *string `json:"metric"`
	TimePeriod     *string `json:"time_period"`
	From           *string `json:"from"` // YYYY-MM-DD
	To             *string `json:"to"`   // YYYY-MM-DD
	GroupBy        *string `json:"group_by"`
	SortBy         *string `json:"sort_by"`
	TopCount       *int    `json:"top_count"`
	ComparisonMode *string `json:"comparison_mode"`
}

// GetFilters returns the current filter and table state.
func (h *AnalyticsHandler) GetFilters(c *fiber.Ctx) error {
	o := h.orchestratorFor(c)
	return c.JSON(fiber.Map{
		"filters": o.Filters(),
		"table":   o.TableState(),
	})
}

// UpdateFilters applies a partial filter update and returns the re-derived
// dashboard.
func (h *AnalyticsHandler) UpdateFilters(c *fiber.Ctx) error {
	var req FilterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	o := h.orchestratorFor(c)
	if err := applyFilterRequest(o, req); err != nil {
		return c.Status(statusForAnalyticsErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return h.Dashboard(c)
}

func applyFilterRequest(o *analytics.Orchestrator, req FilterRequest) error {
	if req.Metric != nil {
		if err := o.OnMetricChange(*req.Metric); err != nil {
			return err
		}
	}
	if req.TimePeriod != nil {
		if err := o.OnTimePeriodChange(*req.TimePeriod); err != nil {
			return err
		}
	}
	if req.From != nil || req.To != nil {
		from, err := parseDatePtr(req.From)
		if err != nil {
			return err
		}
		to, err := parseDatePtr(req.To)
		if err != nil {
			return err
		}
		o.OnDateRangeChange(from, to)
	}
	if req.GroupBy != nil {
		if err := o.OnGroupByChange(*req.GroupBy); err != nil {
			return err
		}
	}
	if req.SortBy != nil {
		if err := o.OnSortByChange(*req.SortBy); err != nil {
			return err
		}
	}
	if req.TopCount != nil {
		o.OnTopCountChange(*req.TopCount)
	}
	if req.ComparisonMode != nil {
		if err := o.OnComparisonModeChange(*req.ComparisonMode); err != nil {
			return err
		}
	}
	return nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidDateRange, err)
	}
	return &t, nil
}

// Dashboard returns the full derived view for the current filter state.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	telemetry.DashboardRequestsTotal.WithLabelValues("dashboard").Inc()
	o := h.orchestratorFor(c)

	if err := h.refresh(c, o); err != nil {
		h.log.Error("Snapshot fetch failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load analytics data"})
	}

	view, err := o.View()
	if err != nil {
		return c.Status(statusForAnalyticsErr(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// Series returns only the chart series for the current filter state.
func (h *AnalyticsHandler) Series(c *fiber.Ctx) error {
	telemetry.DashboardRequestsTotal.WithLabelValues("series").Inc()
	return h.viewSection(c, func(view analytics.View) interface{} {
		return fiber.Map{
			"metric_label": view.MetricLabel,
			"series":       view.Series,
		}
	})
}

// Groups returns only the distribution aggregates.
func (h *AnalyticsHandler) Groups(c *fiber.Ctx) error {
	telemetry.DashboardRequestsTotal.WithLabelValues("groups").Inc()
	return h.viewSection(c, func(view analytics.View) interface{} {
		return fiber.Map{"groups": view.Groups}
	})
}

// Top returns only the ranking.
func (h *AnalyticsHandler) Top(c *fiber.Ctx) error {
	telemetry.DashboardRequestsTotal.WithLabelValues("top").Inc()
	return h.viewSection(c, func(view analytics.View) interface{} {
		return fiber.Map{"top": view.Top}
	})
}

func (h *AnalyticsHandler) viewSection(c *fiber.Ctx, project func(analytics.View) interface{}) error {
	o := h.orchestratorFor(c)

	if err := h.refresh(c, o); err != nil {
		h.log.Error("Snapshot fetch failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load analytics data"})
	}

	view, err := o.View()
	if err != nil {
		return c.Status(statusForAnalyticsErr(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(project(view))
}

// Table applies table interactions from query parameters and returns the
// current page.
func (h *AnalyticsHandler) Table(c *fiber.Ctx) error {
	telemetry.DashboardRequestsTotal.WithLabelValues("table").Inc()
	o := h.orchestratorFor(c)

	if search := c.Query("search"); c.Context().QueryArgs().Has("search") {
		o.OnSearch(search)
	}
	if col := c.Query("sort"); col != "" {
		if err := o.OnSortColumn(col); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}
	if page := c.QueryInt("page"); page != 0 {
		o.OnPageChange(page)
	}
	if size := c.QueryInt("page_size"); size != 0 {
		o.OnPageSizeChange(size)
	}

	if err := h.refresh(c, o); err != nil {
		h.log.Error("Snapshot fetch failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load analytics data"})
	}

	view, err := o.View()
	if err != nil {
		return c.Status(statusForAnalyticsErr(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view.Table)
}

// ExportTable streams the visible table rows as CSV.
func (h *AnalyticsHandler) ExportTable(c *fiber.Ctx) error {
	o := h.orchestratorFor(c)

	if err := h.refresh(c, o); err != nil {
		h.log.Error("Snapshot fetch failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load analytics data"})
	}

	csvData, err := o.ExportCSV()
	if err != nil {
		return c.Status(statusForAnalyticsErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	telemetry.CSVExportsTotal.Inc()
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="analytics.csv"`)
	return c.SendString(csvData)
}

func statusForAnalyticsErr(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownEnum), errors.Is(err, domain.ErrInvalidDateRange):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
