package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SophiaCH21/NoteBookApp/internal/dto"
	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/SophiaCH21/NoteBookApp/internal/repository"
	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = fmt.Errorf("%w: user with this email already exists", serverutils.ErrAlreadyExists)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", serverutils.ErrUnauthorized)
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type TokenSigner interface {
	Sign(subject uuid.UUID, email, name string) (string, time.Time, error)
}

type authService struct {
	userRepository repository.IUserRepository
	tokens         TokenSigner
	bcryptCost     int
}

func NewAuthService(
	userRepository repository.IUserRepository,
	tokens TokenSigner,
	bcryptCost int,
) IAuthService {
	return &authService{
		userRepository: userRepository,
		tokens:         tokens,
		bcryptCost:     bcryptCost,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	_, err := s.userRepository.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, serverutils.ErrNotFound):
		return nil, serverutils.Internal("lookup user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, serverutils.Internal("hash password", err)
	}

	user := entity.User{
		Id:           uuid.New(),
		Email:        email,
		UserName:     strings.TrimSpace(req.UserName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	err = s.userRepository.Create(ctx, &user)
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, serverutils.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, serverutils.Internal("create user", err)
	}

	slogx.Info(ctx, "user registered", slogx.OwnerID(user.Id.String()))

	return s.issue(&user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepository.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, serverutils.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, serverutils.Internal("lookup user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) issue(user *entity.User) (*dto.AuthResponse, error) {
	signed, expiresAt, err := s.tokens.Sign(user.Id, user.Email, user.UserName)
	if err != nil {
		return nil, serverutils.Internal("sign token", err)
	}

	return &dto.AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
