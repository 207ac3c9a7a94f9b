package models

import "time"

// User is a portal account. Natural key: email.
type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Email     string    `gorm:"size:150;not null;uniqueIndex" json:"email"`
	Nip       string    `gorm:"size:30;index" json:"nip"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;not null;default:staff" json:"role"`
	Position  string    `gorm:"size:150" json:"position"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DailyReport is one ASN daily activity log entry.
// Natural key: (user_id, report_date, title).
type DailyReport struct {
	ID          int          `gorm:"primary_key" json:"id"`
	UserId      int          `gorm:"not null;uniqueIndex:uniq_daily_report,priority:1" json:"user_id"`
	ReportDate  time.Time    `gorm:"type:date;not null;uniqueIndex:uniq_daily_report,priority:2" json:"report_date"`
	Title       string       `gorm:"size:191;not null;uniqueIndex:uniq_daily_report,priority:3" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      ReportStatus `gorm:"size:20;not null;default:draft" json:"status"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type ReportKey struct {
	UserId     int
	ReportDate string // YYYY-MM-DD
	Title      string
}

// Assessment is a monthly performance assessment.
// Natural key: (user_id, period). TotalScore is the sum of the seven sub-scores and is stored
// on the row for query convenience; nothing downstream recomputes it.
type Assessment struct {
	ID         int       `gorm:"primary_key" json:"id"`
	UserId     int       `gorm:"not null;uniqueIndex:uniq_assessment,priority:1" json:"user_id"`
	Period     string    `gorm:"size:7;not null;uniqueIndex:uniq_assessment,priority:2" json:"period"`
	Service    int       `gorm:"not null" json:"service"`
	Integrity  int       `gorm:"not null" json:"integrity"`
	Commitment int       `gorm:"not null" json:"commitment"`
	Discipline int       `gorm:"not null" json:"discipline"`
	Teamwork   int       `gorm:"not null" json:"teamwork"`
	Leadership int       `gorm:"not null" json:"leadership"`
	Initiative int       `gorm:"not null" json:"initiative"`
	TotalScore int       `gorm:"not null" json:"total_score"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type AssessmentKey struct {
	UserId int
	Period string
}
