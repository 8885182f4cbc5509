package attendance

import (
	"context"
	"errors"
	"time"

	"catechism/internal/roster"
)

// StudentDirectory is the slice of the roster the ledger needs.
type StudentDirectory interface {
	Get(ctx context.Context, id string) (*roster.Student, error)
	ListByClass(ctx context.Context, className string) ([]roster.Student, error)
}

// Service coordinates attendance writes with the roster.
type Service struct {
	store    Store
	students StudentDirectory
	now      func() time.Time
}

// NewService creates a service backed by a store and the roster.
func NewService(store Store, students StudentDirectory) *Service {
	return &Service{store: store, students: students, now: time.Now}
}

// MarkParams describes a manual attendance mark.
type MarkParams struct {
	StudentID  string
	Date       string // YYYY-MM-DD; empty means today
	Status     string
	Method     string
	Note       string
	RecordedBy string
}

// Mark records attendance for a student on a date, overwriting any record
// already present for that day. Fails with roster.ErrNotFound when the
// student does not exist.
func (s *Service) Mark(ctx context.Context, p MarkParams) (Record, error) {
	if p.Status == "" {
		p.Status = StatusPresent
	}
	if !ValidStatus(p.Status) {
		return Record{}, ErrInvalidStatus
	}
	if p.Method == "" {
		p.Method = MethodManual
	}
	if p.Date == "" {
		p.Date = DateKey(s.now())
	} else if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		// A malformed date would land under a key no date-filtered read
		// ever matches.
		return Record{}, ErrInvalidDate
	}

	student, err := s.students.Get(ctx, p.StudentID)
	if err != nil {
		return Record{}, err
	}

	return s.store.Upsert(ctx, Record{
		StudentID:   student.ID,
		StudentName: student.Name,
		ClassName:   student.ClassName,
		Date:        p.Date,
		Status:      p.Status,
		Method:      p.Method,
		Note:        p.Note,
		RecordedBy:  p.RecordedBy,
		RecordedAt:  s.now().UTC(),
	})
}

// CheckIn marks a student present for today via QR scan. Unlike Mark it
// never updates: a first scan inserts, later scans (or an earlier manual
// mark) leave the stored record untouched and report created=false.
func (s *Service) CheckIn(ctx context.Context, studentID, recordedBy string) (Record, bool, error) {
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return Record{}, false, err
	}
	today := DateKey(s.now())

	if existing, err := s.store.FindByStudentDate(ctx, studentID, today); err != nil {
		return Record{}, false, err
	} else if existing != nil {
		return *existing, false, nil
	}

	rec, err := s.store.Insert(ctx, Record{
		StudentID:   student.ID,
		StudentName: student.Name,
		ClassName:   student.ClassName,
		Date:        today,
		Status:      StatusPresent,
		Method:      MethodQR,
		RecordedBy:  recordedBy,
		RecordedAt:  s.now().UTC(),
	})
	if err != nil {
		// Lost the race against a concurrent writer for today; report the
		// record that won.
		if errors.Is(err, ErrDuplicateDay) {
			if existing, ferr := s.store.FindByStudentDate(ctx, studentID, today); ferr == nil && existing != nil {
				return *existing, false, nil
			}
		}
		return Record{}, false, err
	}
	return rec, true, nil
}

// ClassSheet returns the students of a class alongside the matching
// records; callers join by student id. Students without a record are
// simply not yet recorded.
func (s *Service) ClassSheet(ctx context.Context, className, date string) ([]roster.Student, []Record, error) {
	students, err := s.students.ListByClass(ctx, className)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.store.ListByClass(ctx, className, date)
	if err != nil {
		return nil, nil, err
	}
	return students, records, nil
}

// StudentHistory returns a student's records, newest first.
func (s *Service) StudentHistory(ctx context.Context, studentID string) ([]Record, error) {
	if _, err := s.students.Get(ctx, studentID); err != nil {
		return nil, err
	}
	return s.store.ListByStudent(ctx, studentID)
}
