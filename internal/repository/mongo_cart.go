package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jay6909/qkart-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
	}
}

func (m *mongoCartRepository) FindByUser(ctx context.Context, email string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"email": email}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *mongoCartRepository) Create(ctx context.Context, email string) (*domain.Cart, error) {
	now := time.Now()
	cart := &domain.Cart{
		ID:        primitive.NewObjectID().Hex(),
		Email:     email,
		Items:     []domain.CartItem{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := m.collection.InsertOne(ctx, cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a creation race; the winner's cart is the cart.
			return m.FindByUser(ctx, email)
		}
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return cart, nil
}

// Save writes the cart back conditionally on the version it was loaded
// with. A concurrent writer bumps the version first, making this write
// match nothing and surfacing ErrVersionConflict instead of a lost update.
func (m *mongoCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()

	filter := bson.M{"email": cart.Email, "version": cart.Version}
	update := bson.M{
		"$set": bson.M{
			"cart_items": cart.Items,
			"updated_at": now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	if result.MatchedCount == 0 {
		exists, errCount := m.collection.CountDocuments(ctx, bson.M{"email": cart.Email})
		if errCount != nil {
			return fmt.Errorf("failed to save cart: %w", errCount)
		}
		if exists == 0 {
			return ErrCartNotFound
		}
		return ErrVersionConflict
	}

	cart.Version++
	cart.UpdatedAt = now
	return nil
}

func (m *mongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
