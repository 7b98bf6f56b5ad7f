package balance

import (
	"context"
	"net/http"

	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/dto"
	"github.com/memberhub/memberledger/pkg/auth"
	"github.com/memberhub/memberledger/pkg/utils"
)

type Service interface {
	CreateBalance(ctx context.Context, userID int) (*domain.Balance, error)
	GetBalance(ctx context.Context, userID int) (*domain.Balance, error)
}

type BalanceHandler struct {
	balanceService Service
}

func New(balanceService Service) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
	}
}

// GetBalance godoc
//
//	@Summary		Get current member balance
//	@Description	Retrieve the current balance and the total amount withdrawn for the authenticated member.
//	@Tags			Balance
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO	"Current balance and withdrawn total"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/balance [get]
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	balance, err := h.balanceService.GetBalance(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := dto.BalanceResponseDTO{}
	if balance != nil {
		resp.Current = balance.CurrentBalance
		resp.Withdrawn = balance.WithdrawnTotal
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
