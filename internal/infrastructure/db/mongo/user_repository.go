package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playtube/account-service/internal/core/domain"
)

const (
	collectionUsers         = "users"
	collectionSubscriptions = "subscriptions"
	collectionVideos        = "videos"
)

// UserRepository persists user accounts and runs the channel/watch-history
// aggregations.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	FullName     string               `bson:"full_name"`
	PasswordHash string               `bson:"password_hash"`
	Avatar       domain.Image         `bson:"avatar"`
	CoverImage   domain.Image         `bson:"cover_image,omitempty"`
	WatchHistory []primitive.ObjectID `bson:"watch_history"`
	RefreshToken string               `bson:"refresh_token,omitempty"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	history := make([]string, 0, len(mu.WatchHistory))
	for _, id := range mu.WatchHistory {
		history = append(history, id.Hex())
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		FullName:     mu.FullName,
		PasswordHash: mu.PasswordHash,
		Avatar:       mu.Avatar,
		CoverImage:   mu.CoverImage,
		WatchHistory: history,
		RefreshToken: mu.RefreshToken,
		CreatedAt:    mu.CreatedAt,
		UpdatedAt:    mu.UpdatedAt,
	}
}

// Create inserts a new user document. A duplicate key on the unique
// username/email indexes maps to domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		PasswordHash: user.PasswordHash,
		Avatar:       user.Avatar,
		CoverImage:   user.CoverImage,
		WatchHistory: []primitive.ObjectID{},
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Empty values must never match documents missing the field.
	or := bson.A{}
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, domain.ErrUserNotFound
	}

	return r.findOne(ctx, bson.M{"$or": or})
}

func (r *UserRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"refresh_token": refreshToken})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id, refreshToken string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"refresh_token": refreshToken, "updated_at": time.Now().UTC()},
	})
}

// ClearRefreshToken unsets the field so a logged-out document carries no
// refresh_token key at all.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$unset": bson.M{"refresh_token": 1},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC()},
	})
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateDetails(ctx context.Context, id, fullName, email string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"full_name": fullName,
		"email":     email,
	})
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id string, avatar domain.Image) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"avatar": avatar})
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id string, coverImage domain.Image) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"cover_image": coverImage})
}

// findOneAndUpdate applies a $set and returns the post-update document.
func (r *UserRepository) findOneAndUpdate(ctx context.Context, id string, set bson.M) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

// ChannelProfile joins the user against the subscriptions collection twice:
// once as the channel (subscribers) and once as the subscriber (channels
// followed), then derives counts and the viewer's subscription flag.
func (r *UserRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var isSubscribed bson.M
	if viewerOID, err := primitive.ObjectIDFromHex(viewerID); err == nil {
		isSubscribed = bson.M{"$cond": bson.M{
			"if":   bson.M{"$in": bson.A{viewerOID, "$subscribers.subscriber"}},
			"then": true,
			"else": false,
		}}
	} else {
		// Anonymous viewer: never subscribed.
		isSubscribed = bson.M{"$literal": false}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"username": username}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionSubscriptions,
			"localField":   "_id",
			"foreignField": "channel",
			"as":           "subscribers",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionSubscriptions,
			"localField":   "_id",
			"foreignField": "subscriber",
			"as":           "subscribed_to",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"subscribers_count":            bson.M{"$size": "$subscribers"},
			"channels_subscribed_to_count": bson.M{"$size": "$subscribed_to"},
			"is_subscribed":                isSubscribed,
		}}},
		{{Key: "$project", Value: bson.M{
			"full_name":                    1,
			"username":                     1,
			"email":                        1,
			"avatar":                       1,
			"cover_image":                  1,
			"subscribers_count":            1,
			"channels_subscribed_to_count": 1,
			"is_subscribed":                1,
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("channel profile aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []domain.ChannelProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("channel profile decode: %w", err)
	}
	if len(profiles) == 0 {
		return nil, domain.ErrChannelNotFound
	}
	return &profiles[0], nil
}

type mongoVideoOwner struct {
	FullName string       `bson:"full_name"`
	Username string       `bson:"username"`
	Avatar   domain.Image `bson:"avatar"`
}

type mongoVideo struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	VideoFile   domain.Image       `bson:"video_file"`
	Thumbnail   domain.Image       `bson:"thumbnail"`
	Duration    float64            `bson:"duration"`
	Views       int64              `bson:"views"`
	Owner       mongoVideoOwner    `bson:"owner"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// WatchHistory resolves the user's video references with a nested lookup so
// each video carries its owner as a single embedded object.
func (r *UserRepository) WatchHistory(ctx context.Context, userID string) ([]domain.Video, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionVideos,
			"localField":   "watch_history",
			"foreignField": "_id",
			"as":           "videos",
			"pipeline": bson.A{
				bson.M{"$lookup": bson.M{
					"from":         collectionUsers,
					"localField":   "owner",
					"foreignField": "_id",
					"as":           "owner",
					"pipeline": bson.A{
						bson.M{"$project": bson.M{
							"full_name": 1,
							"username":  1,
							"avatar":    1,
						}},
					},
				}},
				// Collapse the lookup array into the single owner object.
				bson.M{"$addFields": bson.M{
					"owner": bson.M{"$first": "$owner"},
				}},
			},
		}}},
		{{Key: "$project", Value: bson.M{"watch_history": 1, "videos": 1}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("watch history aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		WatchHistory []primitive.ObjectID `bson:"watch_history"`
		Videos       []mongoVideo         `bson:"videos"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("watch history decode: %w", err)
	}
	if len(results) == 0 {
		return nil, domain.ErrUserNotFound
	}

	// $lookup returns matches in collection order; restore the stored
	// watch_history order.
	byID := make(map[primitive.ObjectID]mongoVideo, len(results[0].Videos))
	for _, mv := range results[0].Videos {
		byID[mv.ID] = mv
	}
	videos := make([]domain.Video, 0, len(results[0].WatchHistory))
	for _, id := range results[0].WatchHistory {
		mv, ok := byID[id]
		if !ok {
			// Video deleted since it was watched.
			continue
		}
		videos = append(videos, domain.Video{
			ID:          mv.ID.Hex(),
			Title:       mv.Title,
			Description: mv.Description,
			VideoFile:   mv.VideoFile,
			Thumbnail:   mv.Thumbnail,
			Duration:    mv.Duration,
			Views:       mv.Views,
			Owner: domain.VideoOwner{
				FullName: mv.Owner.FullName,
				Username: mv.Owner.Username,
				Avatar:   mv.Owner.Avatar,
			},
			CreatedAt: mv.CreatedAt,
		})
	}
	return videos, nil
}

// EnsureIndexes creates the uniqueness and search indexes backing the
// registration conflict checks.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "full_name", Value: 1}}},
		{Keys: bson.D{{Key: "refresh_token", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
