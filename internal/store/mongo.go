package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the repositories.
const (
	ColAccounts   = "accounts"
	ColStudents   = "students"
	ColGrades     = "grade_records"
	ColAttendance = "attendance_records"
	ColNews       = "news"
)

// DB wraps the Mongo client and the application database handle.
type DB struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewDB connects to Mongo and pings it so startup fails fast on a bad URL.
func NewDB(ctx context.Context, url, dbName string) (*DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, err
	}
	return &DB{Client: client, DB: client.Database(dbName)}, nil
}

// EnsureIndexes creates the unique indexes the upsert paths rely on.
// Idempotent; Mongo ignores creates that already exist.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	indexCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := d.DB.Collection(ColAccounts).Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// Parent phone is a login key, unique only among students that have one.
	_, err = d.DB.Collection(ColStudents).Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "parent_phone", Value: 1}},
		Options: options.Index().SetUnique(true).
			SetPartialFilterExpression(bson.M{"parent_phone": bson.M{"$exists": true, "$type": "string"}}),
	})
	if err != nil {
		return err
	}

	_, err = d.DB.Collection(ColGrades).Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "semester", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = d.DB.Collection(ColAttendance).Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = d.DB.Collection(ColNews).Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}

// Healthy verifies database connectivity.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.Client.Ping(pingCtx, nil) == nil
}

// Close disconnects the underlying client.
func (d *DB) Close(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Disconnect(ctx)
}
