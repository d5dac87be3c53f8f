package app

import (
	"gorm.io/gorm"

	"newznepal/internal/domain/ad"
	"newznepal/internal/domain/auth"
	"newznepal/internal/domain/newsletter"
	"newznepal/internal/domain/post"
)

// Models lists every table the API owns, parents first.
func Models() []any {
	return []any{
		&auth.AdminUser{},
		&auth.AdminSession{},
		&post.Post{},
		&ad.Advertisement{},
		&ad.AdEvent{},
		&newsletter.Subscriber{},
	}
}

// AutoMigrate creates or updates the schema with gorm. Postgres deployments
// use cmd/migrate instead; this path serves sqlite dev databases and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
