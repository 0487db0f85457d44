package service

import (
	"time"

	"github.com/google/uuid"

	"vtuber_wiki/internal/models"
)

// EventType 是變更事件的種類
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// ChangeEvent 在寫入成功後發布
type ChangeEvent struct {
	Type   EventType      `json:"type"`
	ID     uuid.UUID      `json:"id"`
	VTuber *models.VTuber `json:"vtuber,omitempty"`
	At     time.Time      `json:"at"`
}

func newChangeEvent(t EventType, id uuid.UUID, v *models.VTuber, at time.Time) ChangeEvent {
	var snapshot *models.VTuber
	if v != nil {
		c := *v
		snapshot = &c
	}
	return ChangeEvent{Type: t, ID: id, VTuber: snapshot, At: at}
}

// Notifier 接收變更事件，Publish 不可阻塞
type Notifier interface {
	Publish(event ChangeEvent)
}

type nopNotifier struct{}

func (nopNotifier) Publish(ChangeEvent) {}
