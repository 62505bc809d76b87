package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dtroode/taskkeeper-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type userDocument struct {
	ID           string          `bson:"_id"`
	Email        string          `bson:"email"`
	Name         string          `bson:"name"`
	Salt         string          `bson:"salt"`
	PasswordHash string          `bson:"password"`
	KDF          model.KDFParams `bson:"kdf"`
	CreatedAt    time.Time       `bson:"createdAt"`
	UpdatedAt    time.Time       `bson:"updatedAt"`
}

func newUserDocument(u model.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Email:        u.Email,
		Name:         u.Name,
		Salt:         u.Salt,
		PasswordHash: u.PasswordHash,
		KDF:          u.KDF,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) model() (model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}

	return model.User{
		ID:           id,
		Email:        d.Email,
		Name:         d.Name,
		Salt:         d.Salt,
		PasswordHash: d.PasswordHash,
		KDF:          d.KDF,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type UserRepository struct {
	conn *Connection
	coll *mongo.Collection
}

func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{
		conn: conn,
		coll: conn.db.Collection(usersCollection),
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := r.findOne(ctx, bson.M{"email": email})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := r.findOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, err
	}

	return doc.model()
}
