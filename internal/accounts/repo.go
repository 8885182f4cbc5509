// Package accounts stores teacher, coordinator and admin login accounts.
package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"catechism/internal/store"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already taken")
)

// Roles an account can hold.
const (
	RoleTeacher     = "teacher"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
)

// ValidRole reports whether r is a known account role.
func ValidRole(r string) bool {
	return r == RoleTeacher || r == RoleCoordinator || r == RoleAdmin
}

// UserAccount is a staff login. The password hash is never serialized.
type UserAccount struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Role         string    `bson:"role" json:"role"`
	Classes      []string  `bson:"classes" json:"classes"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Repository persists accounts in the accounts collection.
type Repository struct {
	col *mongo.Collection
}

// NewRepository creates a repo over the application database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(store.ColAccounts)}
}

// Create inserts a new account with a bcrypt-hashed password.
func (r *Repository) Create(ctx context.Context, a UserAccount, password string) (UserAccount, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = RoleTeacher
	}
	if a.Classes == nil {
		a.Classes = []string{}
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return UserAccount{}, err
	}
	a.PasswordHash = string(hash)

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return UserAccount{}, ErrDuplicateUsername
		}
		return UserAccount{}, err
	}
	return a, nil
}

// Authenticate checks a username/password pair and returns the account.
func (r *Repository) Authenticate(ctx context.Context, username, password string) (*UserAccount, error) {
	var a UserAccount
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &a, nil
}

// Get returns an account by id.
func (r *Repository) Get(ctx context.Context, id string) (*UserAccount, error) {
	var a UserAccount
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns all staff accounts sorted by name.
func (r *Repository) List(ctx context.Context) ([]UserAccount, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(1000))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []UserAccount
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Count returns the total number of staff accounts.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
