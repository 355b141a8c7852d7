package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"main/model"
	"main/usecase"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrUserNotFound = errors.New("user not found")

func GetUserRepo(client *mongo.Client) *UserRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("USERS_COLLECTION")
	if collectionName == "" {
		collectionName = "users"
	}
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("username and password required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		// Two racing registrations can both pass the service-layer
		// checks; the unique index is the arbiter and its error must
		// surface as the same conflict.
		if conflict := mapDuplicateUserError(err); conflict != nil {
			return conflict
		}
		utils.TrackError("database", "user_creation_failed")
		return errors.New("failed to add user to database")
	}

	return nil
}

// mapDuplicateUserError translates a unique-index violation on the
// users collection into the matching conflict error, or nil when the
// error is not a duplicate key.
func mapDuplicateUserError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if strings.Contains(err.Error(), "email") {
		return usecase.ErrEmailTaken
	}
	return usecase.ErrUsernameTaken
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	var user model.User
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}
	return &user, nil
}

// Lookups return (nil, nil) when no user matches; the caller decides
// how absence maps onto the response.

func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	return r.findOne(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *UserRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepo) updateOne(ctx context.Context, userID string, update bson.M, failure string) error {
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		utils.TrackError("database", failure)
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "user_not_found")
		return ErrUserNotFound
	}
	return nil
}

// SetTwoFactorSetup stores a freshly generated TOTP secret and hashed
// recovery codes. The enabled flag stays false until the user confirms
// a live code, so a half-finished setup never locks anyone out.
func (r *UserRepo) SetTwoFactorSetup(ctx context.Context, userID, secret string, hashedCodes []string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	return r.updateOne(ctx, userID, bson.M{
		"$set": bson.M{
			"two_factor_secret":  secret,
			"two_factor_enabled": false,
			"recovery_codes":     hashedCodes,
			"updated_at":         time.Now(),
		},
	}, "2fa_setup_failed")
}

func (r *UserRepo) EnableTwoFactor(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	return r.updateOne(ctx, userID, bson.M{
		"$set": bson.M{
			"two_factor_enabled": true,
			"updated_at":         time.Now(),
		},
	}, "2fa_enable_failed")
}

func (r *UserRepo) DisableTwoFactor(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	return r.updateOne(ctx, userID, bson.M{
		"$set": bson.M{
			"two_factor_secret":  "",
			"two_factor_enabled": false,
			"recovery_codes":     nil,
			"updated_at":         time.Now(),
		},
	}, "2fa_disable_failed")
}

// ConsumeRecoveryCode removes one hashed recovery code in a single
// conditional update. The filter matches the code inside the user row,
// so two concurrent redemptions of the same code can never both see a
// modified count of one.
func (r *UserRepo) ConsumeRecoveryCode(ctx context.Context, userID, hashedCode string) (bool, error) {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "recovery_codes": hashedCode}
	update := bson.M{
		"$pull": bson.M{"recovery_codes": hashedCode},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "recovery_code_consume_failed")
		return false, err
	}

	return result.ModifiedCount == 1, nil
}
