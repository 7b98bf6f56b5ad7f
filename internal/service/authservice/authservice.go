package authservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/memberhub/memberledger/internal/domain"
	"github.com/memberhub/memberledger/internal/pg"
	"github.com/memberhub/memberledger/pkg/auth"
	"go.uber.org/zap"
)

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByReferralCode(ctx context.Context, code string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type BalanceService interface {
	CreateBalance(ctx context.Context, userID int) (*domain.Balance, error)
}

var (
	ErrLoginTaken          = errors.New("username already taken")
	ErrUnknownReferralCode = errors.New("unknown referral code")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

type Service struct {
	userRepo       Repo
	balanceService BalanceService
	txManager      pg.TXManager
	hashService    auth.HashServiceInterface
	jwtService     auth.JWTServiceInterface
}

func New(repo Repo, balanceService BalanceService, txManager pg.TXManager, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface) *Service {
	return &Service{
		userRepo:       repo,
		balanceService: balanceService,
		txManager:      txManager,
		hashService:    hashService,
		jwtService:     jwtService,
	}
}

// Register creates the user with a zeroed balance and a fresh referral code.
// A supplied referral code must belong to an existing member.
func (s *Service) Register(ctx context.Context, login, password, displayName, referralCode string) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists, login: ", zap.String("login", login))
		return nil, ErrLoginTaken
	}

	if referralCode != "" {
		referrer, err := s.userRepo.FindByReferralCode(ctx, referralCode)
		if err != nil {
			zap.L().Error("can't find referrer: ", zap.Error(err))
			return nil, err
		}
		if referrer == nil {
			return nil, ErrUnknownReferralCode
		}
	}

	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}

	user := &domain.User{
		Login:        login,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		ReferralCode: uuid.NewString(),
		ReferredBy:   referralCode,
	}
	// The user row and its zero balance commit together; the unique index on
	// login catches registrations that race past the FindByLogin check.
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		newUser, err := s.userRepo.Create(ctx, user)
		if err != nil {
			return err
		}
		_, err = s.balanceService.CreateBalance(ctx, newUser.ID)
		return err
	})
	if err != nil {
		if pg.IsUniqueViolation(err) {
			zap.L().Info("concurrent duplicate registration", zap.String("login", login))
			return nil, ErrLoginTaken
		}
		zap.L().Error("can't register user: ", zap.Error(err))
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("login", login))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil || user == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("login", login))
	return user, nil
}

func (s *Service) GenerateToken(userID int) (string, error) {
	expirationTime := time.Now().Add(15 * time.Minute)

	token, err := s.jwtService.GenerateJWT(userID, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
