package dto

type DecisionRequestDTO struct {
	Decision string `json:"decision" example:"approve"`
}

type AdjustBalanceRequestDTO struct {
	Delta float64 `json:"delta" example:"25.5"`
}
