package dashboard

import (
	"context"
	"net/http"

	"github.com/memberhub/memberledger/internal/service/dashboardservice"
	"github.com/memberhub/memberledger/pkg/auth"
	"github.com/memberhub/memberledger/pkg/utils"
)

type Service interface {
	GetDashboard(ctx context.Context, userID int) (dashboardservice.ViewModel, error)
}

type DashboardHandler struct {
	dashboardService Service
}

func New(dashboardService Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
//
//	@Summary		Get member dashboard
//	@Description	Retrieve the member's view model: balance, member counters and pending-withdrawal flag, rebuilt from change notifications.
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dashboardservice.ViewModel
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/dashboard [get]
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	vm, err := h.dashboardService.GetDashboard(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, vm)
}
