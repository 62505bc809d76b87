// Package mongo implements the user and task stores on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

type Connection struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// NewConnection connects to dsn, verifies the primary is reachable and
// creates the indexes the stores rely on.
func NewConnection(ctx context.Context, dsn, name string, timeout time.Duration) (*Connection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	conn := newConnection(client, name, timeout)

	if err := conn.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	if err := conn.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return conn, nil
}

func newConnection(client *mongo.Client, name string, timeout time.Duration) *Connection {
	return &Connection{
		client:  client,
		db:      client.Database(name),
		timeout: timeout,
	}
}

// EnsureIndexes creates the unique email index and the task owner index.
func (c *Connection) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("users_email_uq").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = c.db.Collection(tasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("tasks_user_created_at_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create tasks index: %w", err)
	}

	return nil
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.client == nil {
		return errors.New("mongo client is nil")
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Connection) Close() error {
	if c.client == nil {
		return nil
	}

	ctx, cancel := c.withTimeout(context.Background())
	defer cancel()

	return c.client.Disconnect(ctx)
}

func (c *Connection) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
