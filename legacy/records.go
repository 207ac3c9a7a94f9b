package legacy

import (
	"time"

	"github.com/shopspring/decimal"
)

// Records are what the importer sees: one struct per entity family, with the parent's natural
// key already joined in. An empty parent key means the legacy row points at nothing.

type User struct {
	ID       int
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Nip      string
	Password string `validate:"required"`
	Role     string
	Position string
	IsActive bool
}

type DailyReport struct {
	ID          int
	UserEmail   string
	ReportDate  time.Time `validate:"required"`
	Title       string    `validate:"required,max=191"`
	Description string
	Status      string
}

// Assessment carries the seven sub-scores, each in [1,5].
type Assessment struct {
	ID         int
	UserEmail  string
	Period     string `validate:"required,datetime=2006-01"`
	Service    int    `validate:"min=1,max=5"`
	Integrity  int    `validate:"min=1,max=5"`
	Commitment int    `validate:"min=1,max=5"`
	Discipline int    `validate:"min=1,max=5"`
	Teamwork   int    `validate:"min=1,max=5"`
	Leadership int    `validate:"min=1,max=5"`
	Initiative int    `validate:"min=1,max=5"`
	Notes      string
}

type Program struct {
	ID   int
	Code string `validate:"required,max=50"`
	Name string `validate:"required"`
}

type Activity struct {
	ID          int
	ProgramCode string
	Code        string `validate:"required,max=50"`
	Name        string `validate:"required"`
}

type Account struct {
	ID           int
	ActivityCode string
	Code         string `validate:"required,max=50"`
	Name         string `validate:"required"`
}

type Budget struct {
	ID           int
	ActivityCode string
	AccountCode  string
	FiscalYear   int             `validate:"gte=2000,lte=2100"`
	Amount       decimal.Decimal `validate:"gte=0"`
}

type Realization struct {
	ID           int
	ActivityCode string
	AccountCode  string
	FiscalYear   int
	Month        int             `validate:"min=1,max=12"`
	Amount       decimal.Decimal `validate:"gte=0"`
	Description  string
}
