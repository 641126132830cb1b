package handler

import (
	"net/http"
	"time"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
	now              func() time.Time
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
		now:              time.Now,
	}
}

// GetSummary godoc
// @Summary Get dashboard summary
// @Description Derived from the loaded stores; no Gateway call is made.
// @Description
// @Description - `leadDistribution`: hot/warm/cold counts with rounded percentages
// @Description - `recentClients`: 3 newest clients by created_at
// @Description - `upcomingEvents`: next 3 calendar items after now
// @Description - `followUpsDue`: clients whose next contact is within 7 days
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.Result[service.DashboardSummary]
// @Router /dashboard [get]
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.Ok(h.dashboardService.Summary(h.now())))
}
