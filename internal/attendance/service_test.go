package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"catechism/internal/roster"
)

type fakeStore struct {
	records map[string]Record // keyed by studentID + "|" + date
	// hideOnFind makes the next n FindByStudentDate calls miss, simulating
	// a concurrent writer landing between the existence check and Insert.
	hideOnFind int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]Record)}
}

func (f *fakeStore) key(studentID, date string) string { return studentID + "|" + date }

func (f *fakeStore) Upsert(_ context.Context, rec Record) (Record, error) {
	k := f.key(rec.StudentID, rec.Date)
	if existing, ok := f.records[k]; ok {
		rec.ID = existing.ID
	} else {
		rec.ID = "rec-" + k
	}
	f.records[k] = rec
	return rec, nil
}

func (f *fakeStore) Insert(_ context.Context, rec Record) (Record, error) {
	k := f.key(rec.StudentID, rec.Date)
	if _, ok := f.records[k]; ok {
		return Record{}, ErrDuplicateDay
	}
	rec.ID = "rec-" + k
	f.records[k] = rec
	return rec, nil
}

func (f *fakeStore) FindByStudentDate(_ context.Context, studentID, date string) (*Record, error) {
	if f.hideOnFind > 0 {
		f.hideOnFind--
		return nil, nil
	}
	if rec, ok := f.records[f.key(studentID, date)]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeStore) ListByClass(_ context.Context, className, date string) ([]Record, error) {
	var out []Record
	for _, rec := range f.records {
		if rec.ClassName == className && (date == "" || rec.Date == date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByStudent(_ context.Context, studentID string) ([]Record, error) {
	var out []Record
	for _, rec := range f.records {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	students map[string]roster.Student
}

func (f *fakeDirectory) Get(_ context.Context, id string) (*roster.Student, error) {
	if s, ok := f.students[id]; ok {
		return &s, nil
	}
	return nil, roster.ErrNotFound
}

func (f *fakeDirectory) ListByClass(_ context.Context, className string) ([]roster.Student, error) {
	var out []roster.Student
	for _, s := range f.students {
		if s.ClassName == className {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	dir := &fakeDirectory{students: map[string]roster.Student{
		"s1": {ID: "s1", Name: "Nguyễn Văn An", ClassName: "Lớp 1A"},
		"s2": {ID: "s2", Name: "Trần Thị Bình", ClassName: "Lớp 1A"},
	}}
	svc := NewService(store, dir)
	svc.now = func() time.Time { return time.Date(2024, 9, 15, 8, 30, 0, 0, time.Local) }
	return svc, store
}

func TestMarkOverwritesSameDay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	first, err := svc.Mark(ctx, MarkParams{StudentID: "s1", Date: "2024-09-15", Status: StatusPresent, RecordedBy: "t1"})
	if err != nil {
		t.Fatalf("first mark failed: %v", err)
	}

	second, err := svc.Mark(ctx, MarkParams{StudentID: "s1", Date: "2024-09-15", Status: StatusAbsentExcused, Note: "sick", RecordedBy: "t2"})
	if err != nil {
		t.Fatalf("second mark failed: %v", err)
	}

	if len(store.records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(store.records))
	}
	if second.ID != first.ID {
		t.Fatalf("overwrite must keep the record identity: %s vs %s", second.ID, first.ID)
	}
	if second.Status != StatusAbsentExcused || second.RecordedBy != "t2" || second.Note != "sick" {
		t.Fatalf("latest mark should win: %+v", second)
	}
}

func TestMarkUnknownStudent(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Mark(context.Background(), MarkParams{StudentID: "missing", Status: StatusPresent})
	if !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("expected roster.ErrNotFound, got %v", err)
	}
}

func TestMarkMalformedDate(t *testing.T) {
	svc, store := newTestService()
	for _, date := range []string{"15/09/2024", "2024-9-15", "yesterday"} {
		_, err := svc.Mark(context.Background(), MarkParams{StudentID: "s1", Date: date, Status: StatusPresent})
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", date, err)
		}
	}
	if len(store.records) != 0 {
		t.Fatalf("no record should be written for malformed dates, got %d", len(store.records))
	}
}

func TestMarkInvalidStatus(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Mark(context.Background(), MarkParams{StudentID: "s1", Status: "asleep"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestCheckInCreatesPresentQRRecord(t *testing.T) {
	svc, store := newTestService()

	rec, created, err := svc.CheckIn(context.Background(), "s1", "t1")
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if !created {
		t.Fatal("first check-in should create a record")
	}
	if rec.Status != StatusPresent || rec.Method != MethodQR {
		t.Fatalf("expected present/qr, got %s/%s", rec.Status, rec.Method)
	}
	if rec.Date != "2024-09-15" {
		t.Fatalf("expected today's date key, got %s", rec.Date)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected one record, got %d", len(store.records))
	}
}

func TestCheckInDoesNotOverwriteExisting(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	// Manual mark earlier today with a different status and recorder.
	if _, err := svc.Mark(ctx, MarkParams{StudentID: "s1", Status: StatusAbsentExcused, RecordedBy: "t1"}); err != nil {
		t.Fatalf("manual mark failed: %v", err)
	}

	rec, created, err := svc.CheckIn(ctx, "s1", "t2")
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if created {
		t.Fatal("re-scan must not create a second record")
	}
	if rec.Status != StatusAbsentExcused || rec.Method != MethodManual || rec.RecordedBy != "t1" {
		t.Fatalf("existing record must stay untouched: %+v", rec)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected one record, got %d", len(store.records))
	}
}

func TestCheckInLostRaceReturnsWinner(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	// The winning writer lands between the existence check and Insert:
	// prime the record and hide it from the first lookup so Insert hits
	// the duplicate-key path and refetches.
	winner := Record{StudentID: "s1", StudentName: "Nguyễn Văn An", ClassName: "Lớp 1A", Date: "2024-09-15", Status: StatusPresent, Method: MethodManual, RecordedBy: "t1"}
	if _, err := store.Insert(ctx, winner); err != nil {
		t.Fatalf("prime failed: %v", err)
	}
	store.hideOnFind = 1

	rec, created, err := svc.CheckIn(ctx, "s1", "t2")
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if created {
		t.Fatal("should report not created")
	}
	if rec.RecordedBy != "t1" || rec.Method != MethodManual {
		t.Fatalf("expected the winning record back, got %+v", rec)
	}
}

func TestClassSheet(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Mark(ctx, MarkParams{StudentID: "s1", Status: StatusPresent, RecordedBy: "t1"}); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	students, records, err := svc.ClassSheet(ctx, "Lớp 1A", "2024-09-15")
	if err != nil {
		t.Fatalf("class sheet failed: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("expected both students regardless of records, got %d", len(students))
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPresent, StatusAbsentExcused, StatusAbsentUnexcused} {
		if !ValidStatus(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	if ValidStatus("late") {
		t.Fatal("unknown status should be invalid")
	}
}
