package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/taskkeeper-server/internal/model"
)

var _ model.TaskStore = (*TaskRepository)(nil)

type taskDocument struct {
	ID          string    `bson:"_id"`
	User        string    `bson:"user"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Completed   bool      `bson:"completed"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func newTaskDocument(t model.Task) taskDocument {
	return taskDocument{
		ID:          t.ID.String(),
		User:        t.OwnerID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDocument) model() (model.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Task{}, fmt.Errorf("invalid task id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.User)
	if err != nil {
		return model.Task{}, fmt.Errorf("invalid task owner %q: %w", d.User, err)
	}

	return model.Task{
		ID:          id,
		OwnerID:     owner,
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type TaskRepository struct {
	conn *Connection
	coll *mongo.Collection
}

func NewTaskRepository(conn *Connection) *TaskRepository {
	return &TaskRepository{
		conn: conn,
		coll: conn.db.Collection(tasksCollection),
	}
}

func ownedBy(ownerID, id uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "user": ownerID.String()}
}

func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, newTaskDocument(task)); err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Task, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	var doc taskDocument
	if err := r.coll.FindOne(ctx, ownedBy(ownerID, id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	return doc.model()
}

func (r *TaskRepository) List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	query := bson.M{"user": ownerID.String()}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := make([]model.Task, 0)
	for cur.Next(ctx) {
		var doc taskDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		task, err := doc.model()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"completed":   task.Completed,
		"updatedAt":   task.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	err := r.coll.FindOneAndUpdate(ctx, ownedBy(task.OwnerID, task.ID), update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return doc.model()
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, ownedBy(ownerID, id))
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}

	return nil
}
