package repository

import "gorm.io/gorm"

func preload(name string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(name)
	}
}

// preloadUnscoped keeps soft-deleted rows of the association visible
func preloadUnscoped(name string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(name, func(tx *gorm.DB) *gorm.DB {
			return tx.Unscoped()
		})
	}
}
