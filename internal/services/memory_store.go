package services

import (
	"context"
	"fmt"

	"lifeboard/internal/database"
	"lifeboard/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MemoryStore reads AI-memory records and free-form notes from MongoDB.
type MemoryStore struct {
	mongoDB *database.MongoDB
}

// NewMemoryStore creates a new memory store.
func NewMemoryStore(mongoDB *database.MongoDB) *MemoryStore {
	return &MemoryStore{mongoDB: mongoDB}
}

// GetRecent returns the user's most recent memory records, newest first.
func (s *MemoryStore) GetRecent(ctx context.Context, userID string, limit int) ([]models.MemoryRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.mongoDB.Collection(database.CollectionMemories).
		Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.MemoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode memories: %w", err)
	}
	return records, nil
}

// GetNotes returns the user's most recent notes, newest first.
func (s *MemoryStore) GetNotes(ctx context.Context, userID string, limit int) ([]models.ContentNote, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.mongoDB.Collection(database.CollectionNotes).
		Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []models.ContentNote
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}
