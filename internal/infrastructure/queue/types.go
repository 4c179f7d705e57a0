package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/pathcraft/backend/domain"
)

// Item wraps a notification awaiting delivery to the primary store.
type Item struct {
	ID           string              `json:"id"`
	Notification domain.Notification `json:"notification"`
	Retries      int                 `json:"retries"`
	Timestamp    time.Time           `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
