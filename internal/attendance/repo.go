// Package attendance is the per-student, per-day ledger, fed manually or
// by QR check-ins.
package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catechism/internal/store"
)

// Attendance statuses. Absence of a record means "not yet recorded",
// not absent.
const (
	StatusPresent         = "present"
	StatusAbsentExcused   = "absent_excused"
	StatusAbsentUnexcused = "absent_unexcused"
)

// How a record was produced.
const (
	MethodManual = "manual"
	MethodQR     = "qr"
)

var (
	ErrInvalidStatus = errors.New("invalid attendance status")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrDuplicateDay  = errors.New("record for this day already exists")
)

// Record is one student's attendance on one calendar date. Student name and
// class are denormalized at write time for read efficiency.
type Record struct {
	ID          string    `bson:"_id" json:"id"`
	StudentID   string    `bson:"student_id" json:"student_id"`
	StudentName string    `bson:"student_name" json:"student_name"`
	ClassName   string    `bson:"class_name" json:"class_name"`
	Date        string    `bson:"date" json:"date"`
	Status      string    `bson:"status" json:"status"`
	Method      string    `bson:"method" json:"method"`
	Note        string    `bson:"note,omitempty" json:"note,omitempty"`
	RecordedBy  string    `bson:"recorded_by" json:"recorded_by"`
	RecordedAt  time.Time `bson:"recorded_at" json:"recorded_at"`
}

// DateKey formats a timestamp as the ledger's calendar-date key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ValidStatus reports whether s is a known attendance status.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsentExcused || s == StatusAbsentUnexcused
}

// Store is what the service needs from persistence.
type Store interface {
	Upsert(ctx context.Context, rec Record) (Record, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	FindByStudentDate(ctx context.Context, studentID, date string) (*Record, error)
	ListByClass(ctx context.Context, className, date string) ([]Record, error)
	ListByStudent(ctx context.Context, studentID string) ([]Record, error)
}

// Repository persists attendance records, at most one per (student, date).
type Repository struct {
	col *mongo.Collection
}

// NewRepository creates a repo over the application database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(store.ColAttendance)}
}

// Upsert overwrites the record for (student, date) in place, creating it on
// first write. Single atomic call; the unique compound index guarantees the
// pair stays unique under concurrent writers.
func (r *Repository) Upsert(ctx context.Context, rec Record) (Record, error) {
	after := options.After
	var out Record
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"student_id": rec.StudentID, "date": rec.Date},
		bson.M{
			"$set": bson.M{
				"student_name": rec.StudentName,
				"class_name":   rec.ClassName,
				"status":       rec.Status,
				"method":       rec.Method,
				"note":         rec.Note,
				"recorded_by":  rec.RecordedBy,
				"recorded_at":  rec.RecordedAt,
			},
			"$setOnInsert": bson.M{"_id": uuid.NewString(), "student_id": rec.StudentID, "date": rec.Date},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(after),
	).Decode(&out)
	if err != nil {
		return Record{}, err
	}
	return out, nil
}

// Insert writes a new record and refuses to touch an existing one for the
// same (student, date); the QR path relies on this never-overwrite behavior.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Record{}, ErrDuplicateDay
		}
		return Record{}, err
	}
	return rec, nil
}

// FindByStudentDate returns the record for (student, date), or nil.
func (r *Repository) FindByStudentDate(ctx context.Context, studentID, date string) (*Record, error) {
	var rec Record
	err := r.col.FindOne(ctx, bson.M{"student_id": studentID, "date": date}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListByClass returns records for a class, optionally for a single date.
func (r *Repository) ListByClass(ctx context.Context, className, date string) ([]Record, error) {
	filter := bson.M{"class_name": className}
	if date != "" {
		filter["date"] = date
	}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "student_name", Value: 1}}).SetLimit(1000))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByStudent returns a student's history, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	cursor, err := r.col.Find(ctx, bson.M{"student_id": studentID}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(1000))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountOn returns how many records exist for a calendar date.
func (r *Repository) CountOn(ctx context.Context, date string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"date": date})
}
