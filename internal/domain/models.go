package domain

import "time"

type User struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	DisplayName  string    `db:"display_name"`
	ReferralCode string    `db:"referral_code"`
	ReferredBy   string    `db:"referred_by"`
	CreatedAt    time.Time `db:"created_at"`
}

type Submission struct {
	ID               int       `db:"id"`
	UserID           int       `db:"user_id"`
	TradingID        string    `db:"trading_id"`
	Status           string    `db:"status"`
	ReferralCredited bool      `db:"referral_credited"`
	CreatedAt        time.Time `db:"created_at"`
}

type Withdrawal struct {
	ID            int       `db:"id"`
	UserID        int       `db:"user_id"`
	Amount        float64   `db:"amount"`
	AccountName   string    `db:"account_name"`
	AccountType   string    `db:"account_type"`
	AccountNumber string    `db:"account_number"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

type Balance struct {
	ID             int     `db:"id"`
	UserID         int     `db:"user_id"`
	CurrentBalance float64 `db:"current_balance"`
	WithdrawnTotal float64 `db:"withdrawn_total"`
}
