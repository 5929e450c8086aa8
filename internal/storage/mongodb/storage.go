package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
	"github.com/polkiloo/usercreds/internal/domain/model"
	"github.com/polkiloo/usercreds/internal/domain/repository"
)

// collection is the subset of *mongo.Collection used by the repository.
type collection interface {
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
}

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Username  string        `bson:"username"`
	Password  string        `bson:"password,omitempty"`
	FirstName string        `bson:"firstName"`
	LastName  string        `bson:"lastName"`
	Age       *int          `bson:"age"`
	Sign      string        `bson:"sign"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// Storage acts as repository facade backed by MongoDB.
type Storage struct {
	client *mongo.Client
	users  collection
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

// New connects to MongoDB and ensures the username index exists.
func New(ctx context.Context, uri, database, collectionName string, logger *slog.Logger) (*Storage, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	coll := client.Database(database).Collection(collectionName)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: model.FieldUsername, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_users_username"),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("init indexes: %w", err)
	}
	logger.Debug("mongo indexes ready", slog.String("collection", collectionName))

	return &Storage{client: client, users: coll, logger: logger}, nil
}

// Close disconnects the client.
func (s *Storage) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// Users returns the user repository backed by this storage.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func findOptions(fields []string) *options.FindOneOptionsBuilder {
	opts := options.FindOne()
	if !model.HasField(fields, model.FieldPassword) {
		opts.SetProjection(bson.M{model.FieldPassword: 0})
	}
	return opts
}

func decodeUser(res *mongo.SingleResult) (*model.User, error) {
	var doc userDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &model.User{
		ID:           doc.ID.Hex(),
		Username:     doc.Username,
		PasswordHash: doc.Password,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Age:          doc.Age,
		Sign:         doc.Sign,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (r *userRepository) LoadByID(ctx context.Context, id string, fields ...string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domainErrors.ErrNotFound
	}
	res := r.storage.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}, findOptions(fields))
	return decodeUser(res)
}

func (r *userRepository) FindByField(ctx context.Context, name string, value any, fields ...string) (*model.User, error) {
	if !model.IsLookupField(name) {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnknownField, name)
	}
	opts := findOptions(fields).SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	res := r.storage.users.FindOne(ctx, bson.D{{Key: name, Value: value}}, opts)
	return decodeUser(res)
}

func (r *userRepository) Save(ctx context.Context, u *model.User) (string, error) {
	if u.ID == "" {
		return r.insert(ctx, u)
	}
	return u.ID, r.update(ctx, u)
}

func (r *userRepository) insert(ctx context.Context, u *model.User) (string, error) {
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Username:  u.Username,
		Password:  u.PasswordHash,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Sign:      u.Sign,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if _, err := r.storage.users.InsertOne(ctx, doc); err != nil {
		return "", mapWriteError(err)
	}
	u.ID = doc.ID.Hex()
	return u.ID, nil
}

func (r *userRepository) update(ctx context.Context, u *model.User) error {
	oid, err := bson.ObjectIDFromHex(u.ID)
	if err != nil {
		return domainErrors.ErrNotFound
	}

	set := bson.D{
		{Key: model.FieldUsername, Value: u.Username},
		{Key: model.FieldFirstName, Value: u.FirstName},
		{Key: model.FieldLastName, Value: u.LastName},
		{Key: model.FieldAge, Value: u.Age},
		{Key: model.FieldSign, Value: u.Sign},
		{Key: "updatedAt", Value: u.UpdatedAt},
	}
	if u.PasswordHash != "" {
		set = append(set, bson.E{Key: model.FieldPassword, Value: u.PasswordHash})
	}

	res, err := r.storage.users.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domainErrors.ErrAlreadyExists
	}
	return err
}
