package dto

type SubmitRequestDTO struct {
	TradingID string `json:"trading_id" example:"ABC123"`
}

type GetSubmissionsResponseDTO struct {
	TradingID string `json:"trading_id" example:"ABC123"`
	Status    string `json:"status" example:"PENDING"`
	CreatedAt string `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}
