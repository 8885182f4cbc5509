// Package seed bootstraps demo data for a fresh deployment.
package seed

import (
	"context"
	"log"

	"catechism/internal/accounts"
	"catechism/internal/grades"
	"catechism/internal/news"
	"catechism/internal/roster"
)

// Deps are the repositories the seeder writes through.
type Deps struct {
	Students *roster.Repository
	Accounts *accounts.Repository
	Grades   *grades.Repository
	News     *news.Repository
}

func f(v float64) *float64 { return &v }

// Run inserts sample students, grades, staff accounts and announcements.
// No-op when students already exist; returns whether anything was written.
func Run(ctx context.Context, d Deps) (bool, error) {
	count, err := d.Students.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	students := []struct {
		student  roster.Student
		password string
		scores   grades.ScoreUpdate
	}{
		{
			student:  roster.Student{Name: "Nguyễn Văn An", ClassName: "Lớp 1A", ParentName: "Nguyễn Văn Nam", ParentPhone: "0123456789"},
			password: "123456",
			scores:   grades.ScoreUpdate{TX1: f(8.5), TX2: f(9.0), TX3: f(7.5), TX4: f(8.0), GK: f(8.5), CK: f(9.0)},
		},
		{
			student:  roster.Student{Name: "Trần Thị Bình", ClassName: "Lớp 1A", ParentName: "Trần Văn Bách", ParentPhone: "0987654321"},
			password: "123456",
			scores:   grades.ScoreUpdate{TX1: f(7.0), TX2: f(7.5), GK: f(8.0), CK: f(7.5)},
		},
		{
			student:  roster.Student{Name: "Lê Văn Cường", ClassName: "Lớp 2A", ParentName: "Lê Thị Cúc", ParentPhone: "0123987456"},
			password: "123456",
			scores:   grades.ScoreUpdate{TX1: f(9.0), TX2: f(8.5), TX3: f(9.5), GK: f(9.0), CK: f(9.5)},
		},
		{
			student:  roster.Student{Name: "Phạm Thị Dung", ClassName: "Lớp 2A", ParentName: "Phạm Văn Đức", ParentPhone: "0987123456"},
			password: "123456",
			scores:   grades.ScoreUpdate{TX1: f(6.0), TX2: f(5.5), GK: f(6.5), CK: f(6.0)},
		},
		{
			student:  roster.Student{Name: "Hoàng Văn Em", ClassName: "Lớp 3A", ParentName: "Hoàng Thị Hoa", ParentPhone: "0123456987"},
			password: "123456",
			scores:   grades.ScoreUpdate{TX1: f(8.0), TX2: f(8.0), TX3: f(8.5), TX4: f(8.0), GK: f(7.5), CK: f(8.5)},
		},
	}

	for _, entry := range students {
		created, err := d.Students.Create(ctx, entry.student, entry.password)
		if err != nil {
			return false, err
		}
		if _, err := d.Grades.Upsert(ctx, created.ID, 1, created.Name, created.ClassName, entry.scores); err != nil {
			return false, err
		}
	}

	staff := []accounts.UserAccount{
		{Username: "pedro", Name: "Thầy Phêrô Nguyễn", Role: accounts.RoleTeacher, Classes: []string{"Lớp 1A"}},
		{Username: "maria", Name: "Cô Maria Trần", Role: accounts.RoleTeacher, Classes: []string{"Lớp 2A"}},
		{Username: "paulo", Name: "Thầy Phao-lô Lê", Role: accounts.RoleCoordinator, Classes: []string{"Lớp 3A"}},
	}
	for _, account := range staff {
		if _, err := d.Accounts.Create(ctx, account, "giaoly2024"); err != nil {
			return false, err
		}
	}

	announcements := []news.Announcement{
		{
			Title:     "Thông báo khai giảng năm học mới 2024-2025",
			Content:   "Giáo xứ thông báo lịch khai giảng năm học Giáo lý 2024-2025 vào ngày Chủ nhật 15/9/2024. Kính mời các em học sinh và phụ huynh tham dự.",
			Author:    "Ban Giáo lý",
			Published: true,
		},
		{
			Title:     "Lễ Thánh Giuse thợ 19/3",
			Content:   "Giáo xứ sẽ tổ chức Lễ Thánh Giuse thợ vào ngày 19/3. Chương trình gồm Thánh lễ và các hoạt động văn nghệ.",
			Author:    "Ban Tổ chức",
			Published: true,
		},
	}
	for _, item := range announcements {
		if _, err := d.News.Create(ctx, item); err != nil {
			return false, err
		}
	}

	log.Printf("seeded %d students, %d accounts, %d announcements", len(students), len(staff), len(announcements))
	return true, nil
}
