// Package roster is the authoritative list of enrolled students, including
// the embedded parent credentials used for parent logins.
package roster

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
	ErrNotFound           = errors.New("student not found")
	ErrInvalidCredentials = errors.New("invalid parent credentials")
	ErrDuplicatePhone     = errors.New("parent phone already registered")
)

// Student is a roster record. The parent password is stored as a bcrypt
// hash and never serialized.
type Student struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	ClassName      string    `bson:"class_name" json:"class_name"`
	BirthDate      string    `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	Address        string    `bson:"address,omitempty" json:"address,omitempty"`
	ParentName     string    `bson:"parent_name,omitempty" json:"parent_name,omitempty"`
	ParentPhone    string    `bson:"parent_phone,omitempty" json:"parent_phone,omitempty"`
	ParentPassword string    `bson:"parent_password,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// Update carries the mutable student fields; nil means leave unchanged.
type Update struct {
	Name           *string `json:"name"`
	ClassName      *string `json:"class_name"`
	BirthDate      *string `json:"birth_date"`
	Address        *string `json:"address"`
	ParentName     *string `json:"parent_name"`
	ParentPhone    *string `json:"parent_phone"`
	ParentPassword *string `json:"parent_password"`
}

// Repository persists students in the students collection.
type Repository struct {
	col *mongo.Collection
}

// NewRepository creates a repo over the application database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(store.ColStudents)}
}

// Create inserts a new student, hashing the parent password when given.
func (r *Repository) Create(ctx context.Context, s Student, parentPassword string) (Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if parentPassword != "" {
		hash, err := hashPassword(parentPassword)
		if err != nil {
			return Student{}, err
		}
		s.ParentPassword = hash
	}
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Student{}, ErrDuplicatePhone
		}
		return Student{}, err
	}
	return s, nil
}

// Get returns a student by id.
func (r *Repository) Get(ctx context.Context, id string) (*Student, error) {
	var s Student
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update applies a partial update and returns the new document.
func (r *Repository) Update(ctx context.Context, id string, u Update) (*Student, error) {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.ClassName != nil {
		set["class_name"] = *u.ClassName
	}
	if u.BirthDate != nil {
		set["birth_date"] = *u.BirthDate
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.ParentName != nil {
		set["parent_name"] = *u.ParentName
	}
	if u.ParentPhone != nil {
		set["parent_phone"] = *u.ParentPhone
	}
	if u.ParentPassword != nil && *u.ParentPassword != "" {
		hash, err := hashPassword(*u.ParentPassword)
		if err != nil {
			return nil, err
		}
		set["parent_password"] = hash
	}
	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	after := options.After
	var s Student
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, err
	}
	return &s, nil
}

// List returns students filtered by class and/or a case-insensitive search
// over name and class name.
func (r *Repository) List(ctx context.Context, className, search string) ([]Student, error) {
	filter := bson.M{}
	if className != "" {
		filter["class_name"] = className
	}
	if search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"class_name": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "class_name", Value: 1}, {Key: "name", Value: 1}}).SetLimit(1000))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// ListByClass returns every student tagged with the class name.
func (r *Repository) ListByClass(ctx context.Context, className string) ([]Student, error) {
	return r.List(ctx, className, "")
}

// AuthenticateParent resolves the parent login key. The phone is unique
// among students that carry one, so a match identifies exactly one student.
func (r *Repository) AuthenticateParent(ctx context.Context, phone, password string) (*Student, error) {
	var s Student
	err := r.col.FindOne(ctx, bson.M{"parent_phone": phone}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if s.ParentPassword == "" {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.ParentPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &s, nil
}

// Count returns the total number of students.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// Classes returns the distinct class names on the roster.
func (r *Repository) Classes(ctx context.Context) ([]string, error) {
	values, err := r.col.Distinct(ctx, "class_name", bson.M{})
	if err != nil {
		return nil, err
	}
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			classes = append(classes, name)
		}
	}
	return classes, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
