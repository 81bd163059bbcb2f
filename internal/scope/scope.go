package scope

import (
	"time"

	"gorm.io/gorm"
)

// Query predicates shared by the repositories. Visibility rules are expressed
// here as composable gorm scopes so listings are filtered at the query layer,
// never fetched broadly and trimmed in memory.

func Division(name string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("division = ?", name)
	}
}

func Status(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

func Owner(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// Month restricts a date column to one calendar month.
func Month(column string, year int, month time.Month) func(db *gorm.DB) *gorm.DB {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", from, to)
	}
}
