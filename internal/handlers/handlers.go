package handlers

import (
	"net/http"

	_ "github.com/memberhub/memberledger/docs"
	adminhandlers "github.com/memberhub/memberledger/internal/handlers/admin"
	authhandlers "github.com/memberhub/memberledger/internal/handlers/auth"
	balancehandlers "github.com/memberhub/memberledger/internal/handlers/balance"
	dashboardhandlers "github.com/memberhub/memberledger/internal/handlers/dashboard"
	submissionhandlers "github.com/memberhub/memberledger/internal/handlers/submissions"
	withdrawalhandlers "github.com/memberhub/memberledger/internal/handlers/withdrawals"
	"github.com/memberhub/memberledger/internal/service"
	"github.com/memberhub/memberledger/pkg/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type SubmissionHandler interface {
	AddSubmission(w http.ResponseWriter, r *http.Request)
	GetSubmissions(w http.ResponseWriter, r *http.Request)
}

type WithdrawalHandler interface {
	Withdraw(w http.ResponseWriter, r *http.Request)
	GetWithdrawals(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type DashboardHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	DecideSubmission(w http.ResponseWriter, r *http.Request)
	DecideWithdrawal(w http.ResponseWriter, r *http.Request)
	AdjustBalance(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler       AuthHandler
	SubmissionHandler SubmissionHandler
	WithdrawalHandler WithdrawalHandler
	BalanceHandler    BalanceHandler
	DashboardHandler  DashboardHandler
	AdminHandler      AdminHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:       authhandlers.New(s.AuthService),
		SubmissionHandler: submissionhandlers.New(s.SubmissionService),
		WithdrawalHandler: withdrawalhandlers.New(s.WithdrawalService),
		BalanceHandler:    balancehandlers.New(s.BalanceService),
		DashboardHandler:  dashboardhandlers.New(s.DashboardService),
		AdminHandler:      adminhandlers.New(s.ModerationService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Route("/submissions", func(r chi.Router) {
				r.Post("/", h.SubmissionHandler.AddSubmission)
				r.Get("/", h.SubmissionHandler.GetSubmissions)
			})
			r.Route("/balance", func(r chi.Router) {
				r.Get("/", h.BalanceHandler.GetBalance)
				r.Post("/withdraw", h.WithdrawalHandler.Withdraw)
			})
			r.Get("/withdrawals", h.WithdrawalHandler.GetWithdrawals)
			r.Get("/dashboard", h.DashboardHandler.GetDashboard)
		})
	})
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.AdminMiddleware)
		r.Post("/submissions/{id}/decision", h.AdminHandler.DecideSubmission)
		r.Post("/withdrawals/{id}/decision", h.AdminHandler.DecideWithdrawal)
		r.Post("/balance/{login}/adjust", h.AdminHandler.AdjustBalance)
	})

	return r
}
