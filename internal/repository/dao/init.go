package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Game{},
		&RereleaseRequest{},
		&RereleaseVote{},
	)
}

// TruncateTables empties every application table and resets identities.
func TruncateTables(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE rerelease_votes, rerelease_requests, games, users RESTART IDENTITY CASCADE").Error
}
