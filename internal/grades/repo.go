// Package grades holds per-semester score records and the pure averaging
// engine that turns them into a yearly report.
package grades

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catechism/internal/store"
)

// ErrInvalidScore marks a component score outside the 0..10 domain.
var ErrInvalidScore = errors.New("score out of range")

// SemesterRecord holds the component scores of one student in one semester.
// Nil means "not yet entered", which is distinct from a zero score.
type SemesterRecord struct {
	ID          string    `bson:"_id" json:"id"`
	StudentID   string    `bson:"student_id" json:"student_id"`
	Semester    int       `bson:"semester" json:"semester"`
	StudentName string    `bson:"student_name" json:"student_name"`
	ClassName   string    `bson:"class_name" json:"class_name"`
	TX1         *float64  `bson:"tx1,omitempty" json:"tx1,omitempty"`
	TX2         *float64  `bson:"tx2,omitempty" json:"tx2,omitempty"`
	TX3         *float64  `bson:"tx3,omitempty" json:"tx3,omitempty"`
	TX4         *float64  `bson:"tx4,omitempty" json:"tx4,omitempty"`
	GK          *float64  `bson:"gk,omitempty" json:"gk,omitempty"`
	CK          *float64  `bson:"ck,omitempty" json:"ck,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// ScoreUpdate is a partial update of component scores; nil fields are left
// as they are.
type ScoreUpdate struct {
	TX1 *float64 `json:"tx1"`
	TX2 *float64 `json:"tx2"`
	TX3 *float64 `json:"tx3"`
	TX4 *float64 `json:"tx4"`
	GK  *float64 `json:"gk"`
	CK  *float64 `json:"ck"`
}

// Validate checks every provided score against the 0..10 domain.
func (u ScoreUpdate) Validate() error {
	for name, score := range map[string]*float64{
		"tx1": u.TX1, "tx2": u.TX2, "tx3": u.TX3, "tx4": u.TX4, "gk": u.GK, "ck": u.CK,
	} {
		if score != nil && (*score < 0 || *score > 10) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidScore, name, *score)
		}
	}
	return nil
}

func (u ScoreUpdate) set() bson.M {
	set := bson.M{}
	if u.TX1 != nil {
		set["tx1"] = *u.TX1
	}
	if u.TX2 != nil {
		set["tx2"] = *u.TX2
	}
	if u.TX3 != nil {
		set["tx3"] = *u.TX3
	}
	if u.TX4 != nil {
		set["tx4"] = *u.TX4
	}
	if u.GK != nil {
		set["gk"] = *u.GK
	}
	if u.CK != nil {
		set["ck"] = *u.CK
	}
	return set
}

// Repository persists semester records, at most one per (student, semester).
type Repository struct {
	col *mongo.Collection
}

// NewRepository creates a repo over the application database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(store.ColGrades)}
}

// Upsert applies a partial score update for (studentID, semester), creating
// the record on first write. Single atomic call; the unique compound index
// keeps concurrent writers from duplicating the pair.
func (r *Repository) Upsert(ctx context.Context, studentID string, semester int, studentName, className string, u ScoreUpdate) (SemesterRecord, error) {
	if err := u.Validate(); err != nil {
		return SemesterRecord{}, err
	}

	set := u.set()
	set["student_name"] = studentName
	set["class_name"] = className
	set["updated_at"] = time.Now().UTC()

	after := options.After
	var rec SemesterRecord
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"student_id": studentID, "semester": semester},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"_id": uuid.NewString(), "student_id": studentID, "semester": semester},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(after),
	).Decode(&rec)
	if err != nil {
		return SemesterRecord{}, err
	}
	return rec, nil
}

// Get returns the record for (studentID, semester), or nil when none exists.
func (r *Repository) Get(ctx context.Context, studentID string, semester int) (*SemesterRecord, error) {
	var rec SemesterRecord
	err := r.col.FindOne(ctx, bson.M{"student_id": studentID, "semester": semester}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Year returns both semester records for a student; either may be nil.
func (r *Repository) Year(ctx context.Context, studentID string) (*SemesterRecord, *SemesterRecord, error) {
	sem1, err := r.Get(ctx, studentID, 1)
	if err != nil {
		return nil, nil, err
	}
	sem2, err := r.Get(ctx, studentID, 2)
	if err != nil {
		return nil, nil, err
	}
	return sem1, sem2, nil
}
