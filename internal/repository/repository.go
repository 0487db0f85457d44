package repository

import "vtuber_wiki/internal/storage"

type Repositories struct {
	VTuber VTuberRepository
}

func NewRepositories(db *storage.PostgresDB, table string) *Repositories {
	return &Repositories{
		VTuber: NewVTuberRepository(db, table),
	}
}

// NewMemoryRepositories 建立不需資料庫的 repositories
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		VTuber: NewMemoryVTuberRepository(),
	}
}
