package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column is a customers table column. Queries are built only from these.
type Column string

const (
	ColID           Column = "id"
	ColCreatedAt    Column = "created_at"
	ColFirstName    Column = "first_name"
	ColLastName     Column = "last_name"
	ColPhone        Column = "phone"
	ColMobile       Column = "mobile"
	ColCity         Column = "city"
	ColCountry      Column = "country"
	ColEmail        Column = "email"
	ColOrganization Column = "organization"
	ColUserID       Column = "user_id"
)

// Field is a projected column, optionally renamed in the result set.
type Field struct {
	Column Column
	As     string
}

type Projection []Field

// SummaryProjection is what list and read expose; id is renamed to uid.
var SummaryProjection = Projection{
	{Column: ColID, As: "uid"},
	{Column: ColCreatedAt},
	{Column: ColFirstName},
	{Column: ColLastName},
	{Column: ColPhone},
	{Column: ColMobile},
	{Column: ColCity},
	{Column: ColUserID},
}

// UpdatableColumns are the only columns an update may write.
// id, created_at and user_id are never written after insert.
var UpdatableColumns = []Column{
	ColFirstName,
	ColLastName,
	ColPhone,
	ColMobile,
	ColCity,
	ColCountry,
	ColEmail,
	ColOrganization,
}

func (p Projection) selects() []string {
	out := make([]string, 0, len(p))
	for _, f := range p {
		if f.As != "" {
			out = append(out, string(f.Column)+" AS "+f.As)
			continue
		}
		out = append(out, string(f.Column))
	}
	return out
}

func columnNames(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = string(c)
	}
	return out
}

// Filter narrows a query. Nil fields are not applied.
type Filter struct {
	ID *int64
}

func ByID(id int64) Filter { return Filter{ID: &id} }

// Query is a typed read against the customers table.
type Query struct {
	Filter     Filter
	Projection Projection
	OrderBy    Column
	Desc       bool
	Limit      int
}

func (q Query) apply(db *gorm.DB) *gorm.DB {
	proj := q.Projection
	if len(proj) == 0 {
		proj = SummaryProjection
	}
	db = db.Select(proj.selects())

	if q.Filter.ID != nil {
		db = db.Where(clause.Eq{Column: clause.Column{Name: string(ColID)}, Value: *q.Filter.ID})
	}
	if q.OrderBy != "" {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: string(q.OrderBy)}, Desc: q.Desc})
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db
}
