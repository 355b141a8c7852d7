package repository

import (
	"context"
	"os"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetAPIKeyRepo(client *mongo.Client) *APIKeyRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("API_KEYS_COLLECTION")
	if collectionName == "" {
		collectionName = "api_keys"
	}
	return &APIKeyRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

type APIKeyRepo struct {
	MongoCollection *mongo.Collection
}

func (r *APIKeyRepo) AddAPIKey(ctx context.Context, key *model.APIKey) error {
	timer := utils.TrackDBOperation("insert", "api_keys")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, key); err != nil {
		utils.TrackError("database", "api_key_creation_failed")
		return err
	}

	return nil
}

func (r *APIKeyRepo) find(ctx context.Context, filter bson.M) ([]model.APIKey, error) {
	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "api_key_lookup_error")
		return nil, err
	}

	var keys []model.APIKey
	if err := cursor.All(ctx, &keys); err != nil {
		utils.TrackError("database", "api_key_decode_error")
		return nil, err
	}

	return keys, nil
}

func (r *APIKeyRepo) FindByUser(ctx context.Context, userID string) ([]model.APIKey, error) {
	timer := utils.TrackDBOperation("find", "api_keys")
	defer timer.ObserveDuration()

	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *APIKeyRepo) FindActiveByUser(ctx context.Context, userID string) ([]model.APIKey, error) {
	timer := utils.TrackDBOperation("find", "api_keys")
	defer timer.ObserveDuration()

	return r.find(ctx, bson.M{"user_id": userID, "is_active": true})
}

// DeleteAPIKey filters on both owner and key id, so a key belonging to
// someone else deletes nothing and reads as absent.
func (r *APIKeyRepo) DeleteAPIKey(ctx context.Context, userID, keyID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "api_keys")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID, "key_id": keyID})
	if err != nil {
		utils.TrackError("database", "api_key_deletion_failed")
		return 0, err
	}

	return result.DeletedCount, nil
}

func (r *APIKeyRepo) TouchLastUsed(ctx context.Context, keyID string) error {
	timer := utils.TrackDBOperation("update", "api_keys")
	defer timer.ObserveDuration()

	now := time.Now()
	_, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"key_id": keyID},
		bson.M{"$set": bson.M{"last_used": now, "updated_at": now}})
	if err != nil {
		utils.TrackError("database", "api_key_touch_failed")
	}
	return err
}
