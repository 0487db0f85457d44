package service

import (
	"vtuber_wiki/internal/repository"
)

type Services struct {
	VTuberService *VTuberService
	ChangeFeed    *ChangeFeed
}

func NewServices(repos *repository.Repositories, maxBatchSize int) *Services {
	feed := NewChangeFeed()

	return &Services{
		VTuberService: NewVTuberService(repos.VTuber, feed, maxBatchSize),
		ChangeFeed:    feed,
	}
}
