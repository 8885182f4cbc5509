// Package news is the parish announcement board.
package news

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catechism/internal/store"
)

// Announcement is a posted news item; only published ones are externally
// visible.
type Announcement struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Author    string    `bson:"author" json:"author"`
	Published bool      `bson:"published" json:"published"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Repository persists announcements in the news collection.
type Repository struct {
	col *mongo.Collection
}

// NewRepository creates a repo over the application database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(store.ColNews)}
}

// Create inserts a new announcement.
func (r *Repository) Create(ctx context.Context, a Announcement) (Announcement, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

// ListPublished returns published announcements, newest first.
func (r *Repository) ListPublished(ctx context.Context) ([]Announcement, error) {
	cursor, err := r.col.Find(ctx,
		bson.M{"published": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []Announcement
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
