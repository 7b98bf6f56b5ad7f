package dto

import "time"

type BalanceResponseDTO struct {
	Current   float64 `json:"current" example:"500.5"`
	Withdrawn float64 `json:"withdrawn" example:"42"`
}

type WithdrawRequestDTO struct {
	Amount        float64 `json:"amount" example:"30"`
	AccountName   string  `json:"account_name" example:"John Smith"`
	AccountType   string  `json:"account_type" example:"card"`
	AccountNumber string  `json:"account_number" example:"2404815702"`
}

type GetWithdrawalsResponseDTO struct {
	Amount        float64   `json:"amount" example:"30"`
	AccountName   string    `json:"account_name" example:"John Smith"`
	AccountType   string    `json:"account_type" example:"card"`
	AccountNumber string    `json:"account_number" example:"2404815702"`
	Status        string    `json:"status" example:"PENDING"`
	CreatedAt     time.Time `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}
