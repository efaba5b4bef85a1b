package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/jay6909/qkart-backend/internal/domain"
	"github.com/jay6909/qkart-backend/internal/repository"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFound("User not found")
		}
		return nil, internalError("Fetching user failed", err)
	}
	return user, nil
}

// SetAddress replaces the user's delivery address. A real address flips the
// address-completeness state checkout depends on.
func (s *UserService) SetAddress(ctx context.Context, user *domain.User, address string) (*domain.User, error) {
	address = strings.TrimSpace(address)
	if len(address) < domain.MinAddressLength {
		return nil, invalidRequest(MsgAddressTooShort)
	}

	prev := user.Address
	user.Address = address
	if err := s.users.Save(ctx, user); err != nil {
		user.Address = prev
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFound("User not found")
		}
		log.Printf("error while saving the address: %v", err)
		return nil, internalError("Updating address failed", err)
	}

	return user, nil
}
