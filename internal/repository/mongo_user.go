package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jay6909/qkart-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{
		collection: db.Collection("users"),
	}
}

func (m *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User

	filter := bson.M{"email": email}
	err := m.collection.FindOne(ctx, filter).Decode(&user)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Save persists profile fields only. The wallet balance is deliberately not
// written here: a profile update racing a checkout must not overwrite a
// concurrent debit. Wallet movement goes through DebitWallet.
func (m *mongoUserRepository) Save(ctx context.Context, user *domain.User) error {
	filter := bson.M{"email": user.Email}
	update := bson.M{
		"$set": bson.M{
			"name":       user.Name,
			"address":    user.Address,
			"updated_at": time.Now(),
		},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DebitWallet decrements the balance atomically, matching only when the
// wallet covers the amount so concurrent debits cannot drive it negative.
func (m *mongoUserRepository) DebitWallet(ctx context.Context, email string, amount float64) error {
	filter := bson.M{
		"email":        email,
		"wallet_money": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"wallet_money": -amount},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	if result.MatchedCount == 0 {
		count, errCount := m.collection.CountDocuments(ctx, bson.M{"email": email})
		if errCount != nil {
			return fmt.Errorf("failed to debit wallet: %w", errCount)
		}
		if count == 0 {
			return ErrUserNotFound
		}
		return ErrInsufficientFunds
	}

	return nil
}
