package repository

import "gorm.io/gorm/clause"

// newestFirst orders rows of table by creation time, newest first, with id as the tiebreaker.
func newestFirst(table string) clause.OrderBy {
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: table, Name: "created_at"}, Desc: true},
		{Column: clause.Column{Table: table, Name: "id"}, Desc: true},
	}}
}
