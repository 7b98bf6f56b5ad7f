package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/dto"
	"github.com/memberhub/memberledger/internal/service/submissionservice"
	"github.com/memberhub/memberledger/pkg/auth"
	"github.com/memberhub/memberledger/pkg/utils"
)

type Service interface {
	Submit(ctx context.Context, userID int, rawTradingID string) (*domain.Submission, error)
	GetSubmissions(ctx context.Context, userID int) ([]domain.Submission, error)
}

type SubmissionHandler struct {
	submissionService Service
}

func New(submissionService Service) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// AddSubmission godoc
//
//	@Summary		Submit a trading ID for approval
//	@Description	Record a pending submission for the authenticated member; the trading ID is trimmed and uppercased before the uniqueness check.
//	@Tags			Submissions
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.SubmitRequestDTO	true	"Trading ID to submit"
//	@Security		BearerAuth
//	@Success		202	{object}	domain.Submission	"Submission accepted, waiting for moderation"
//	@Failure		400	{object}	utils.Response		"Empty trading ID or bad request body"
//	@Failure		401	{object}	utils.Response		"User not authorized"
//	@Failure		409	{object}	utils.Response		"Trading ID already submitted"
//	@Failure		500	{object}	utils.Response		"Internal server error"
//	@Router			/api/user/submissions [post]
func (h *SubmissionHandler) AddSubmission(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.submissionService.Submit(r.Context(), userID, req.TradingID)
	if err != nil {
		switch {
		case errors.Is(err, submissionservice.ErrEmptyTradingID):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, submissionservice.ErrDuplicateSubmission):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, resp)
}

// GetSubmissions godoc
//
//	@Summary		Get submission history for member
//	@Description	Retrieve the authenticated member's submissions, newest first
//	@Tags			Submissions
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.GetSubmissionsResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/submissions [get]
func (h *SubmissionHandler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	submissions, err := h.submissionService.GetSubmissions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(submissions) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}

	var response []dto.GetSubmissionsResponseDTO
	for _, s := range submissions {
		response = append(response, dto.GetSubmissionsResponseDTO{
			TradingID: s.TradingID,
			Status:    s.Status,
			CreatedAt: s.CreatedAt.Format(time.RFC3339),
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
