package withdrawals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/dto"
	"github.com/memberhub/memberledger/internal/service/withdrawalservice"
	"github.com/memberhub/memberledger/pkg/auth"
	"github.com/memberhub/memberledger/pkg/utils"
)

type Service interface {
	RequestWithdrawal(ctx context.Context, userID int, amount float64, destination withdrawalservice.Destination) (*domain.Withdrawal, error)
	GetWithdrawals(ctx context.Context, userID int) ([]domain.Withdrawal, error)
}

type WithdrawalHandler struct {
	withdrawalService Service
}

func New(withdrawalService Service) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// Withdraw godoc
//
//	@Summary		Request funds withdrawal
//	@Description	Record a pending withdrawal request; the balance is checked server-side and stays untouched until moderation completes the request.
//	@Tags			Balance
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WithdrawRequestDTO	true	"Withdrawal request payload"
//	@Success		202		{object}	domain.Withdrawal		"Withdrawal request accepted"
//	@Failure		400		{object}	utils.Response			"Bad request body"
//	@Failure		401		{object}	utils.Response			"User not authorized"
//	@Failure		402		{object}	utils.Response			"Insufficient balance"
//	@Failure		409		{object}	utils.Response			"Withdrawal already pending"
//	@Failure		422		{object}	utils.Response			"Invalid amount or account details"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/user/balance/withdraw [post]
func (h *WithdrawalHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.WithdrawRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	destination := withdrawalservice.Destination{
		AccountName:   req.AccountName,
		AccountType:   req.AccountType,
		AccountNumber: req.AccountNumber,
	}
	resp, err := h.withdrawalService.RequestWithdrawal(r.Context(), userID, req.Amount, destination)
	if err != nil {
		switch {
		case errors.Is(err, withdrawalservice.ErrInvalidAmount),
			errors.Is(err, withdrawalservice.ErrMissingAccountDetails),
			errors.Is(err, withdrawalservice.ErrInvalidAccountNumber):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, withdrawalservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, withdrawalservice.ErrWithdrawalAlreadyPending):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, resp)
}

// GetWithdrawals godoc
//
//	@Summary		Get withdrawals history
//	@Description	Get withdrawals history for the authenticated member, newest first
//	@Tags			Balance
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.GetWithdrawalsResponseDTO	"Withdrawals history"
//	@Success		204	{object}	utils.Response					"Withdrawals not found"
//	@Failure		401	{object}	utils.Response					"User not authorized"
//	@Failure		500	{object}	utils.Response					"Internal server error"
//	@Router			/api/user/withdrawals [get]
func (h *WithdrawalHandler) GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	withdrawals, err := h.withdrawalService.GetWithdrawals(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch withdrawals")
		return
	}

	if len(withdrawals) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Withdrawals not found")
		return
	}

	response := make([]dto.GetWithdrawalsResponseDTO, len(withdrawals))
	for i, wd := range withdrawals {
		response[i] = dto.GetWithdrawalsResponseDTO{
			Amount:        wd.Amount,
			AccountName:   wd.AccountName,
			AccountType:   wd.AccountType,
			AccountNumber: wd.AccountNumber,
			Status:        wd.Status,
			CreatedAt:     wd.CreatedAt,
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}
