package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/dto"
	"github.com/memberhub/memberledger/internal/service/moderationservice"
	"github.com/memberhub/memberledger/pkg/utils"
)

type Service interface {
	DecideSubmission(ctx context.Context, id int, approve bool) (*domain.Submission, error)
	DecideWithdrawal(ctx context.Context, id int, complete bool) (*domain.Withdrawal, error)
	AdjustBalance(ctx context.Context, login string, delta float64) (*domain.Balance, error)
}

type AdminHandler struct {
	moderationService Service
}

func New(moderationService Service) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
	}
}

// DecideSubmission godoc
//
//	@Summary		Approve or reject a pending submission
//	@Tags			Moderation
//	@Security		AdminAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Submission ID"
//	@Param			request	body		dto.DecisionRequestDTO	true	"approve or reject"
//	@Success		200		{object}	domain.Submission
//	@Failure		400		{object}	utils.Response	"Bad id or decision"
//	@Failure		401		{object}	utils.Response	"Not authorized"
//	@Failure		404		{object}	utils.Response	"Submission not found"
//	@Failure		409		{object}	utils.Response	"Already decided"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/submissions/{id}/decision [post]
func (h *AdminHandler) DecideSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}

	var req dto.DecisionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		utils.RespondWithError(w, http.StatusBadRequest, "Decision must be approve or reject")
		return
	}

	resp, err := h.moderationService.DecideSubmission(r.Context(), id, req.Decision == "approve")
	if err != nil {
		switch {
		case errors.Is(err, moderationservice.ErrSubmissionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, moderationservice.ErrAlreadyDecided):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// DecideWithdrawal godoc
//
//	@Summary		Complete or reject a pending withdrawal
//	@Description	Completion re-validates the balance and debits it in one transaction.
//	@Tags			Moderation
//	@Security		AdminAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Withdrawal ID"
//	@Param			request	body		dto.DecisionRequestDTO	true	"complete or reject"
//	@Success		200		{object}	domain.Withdrawal
//	@Failure		400		{object}	utils.Response	"Bad id or decision"
//	@Failure		401		{object}	utils.Response	"Not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		404		{object}	utils.Response	"Withdrawal not found"
//	@Failure		409		{object}	utils.Response	"Already decided"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/withdrawals/{id}/decision [post]
func (h *AdminHandler) DecideWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid withdrawal id")
		return
	}

	var req dto.DecisionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Decision != "complete" && req.Decision != "reject" {
		utils.RespondWithError(w, http.StatusBadRequest, "Decision must be complete or reject")
		return
	}

	resp, err := h.moderationService.DecideWithdrawal(r.Context(), id, req.Decision == "complete")
	if err != nil {
		switch {
		case errors.Is(err, moderationservice.ErrWithdrawalNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, moderationservice.ErrAlreadyDecided):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, moderationservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// AdjustBalance godoc
//
//	@Summary		Adjust a member's balance by a signed delta
//	@Tags			Moderation
//	@Security		AdminAuth
//	@Accept			json
//	@Produce		json
//	@Param			login	path		string						true	"Member login"
//	@Param			request	body		dto.AdjustBalanceRequestDTO	true	"Signed delta"
//	@Success		200		{object}	domain.Balance
//	@Failure		400		{object}	utils.Response	"Bad request body"
//	@Failure		401		{object}	utils.Response	"Not authorized"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		422		{object}	utils.Response	"Balance would go negative"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/balance/{login}/adjust [post]
func (h *AdminHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	var req dto.AdjustBalanceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.moderationService.AdjustBalance(r.Context(), login, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, moderationservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, moderationservice.ErrNegativeBalance):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
