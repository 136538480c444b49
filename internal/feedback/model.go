package feedback

import (
	"time"
)

// Feedback is one participant's rating of an event they attended. The
// composite unique index makes the once-per-event rule a database
// guarantee, not just a service check.
type Feedback struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	EventID       uint   `gorm:"not null;uniqueIndex:idx_feedback_event_participant" json:"event_id"`
	ParticipantID uint   `gorm:"not null;uniqueIndex:idx_feedback_event_participant" json:"participant_id"`
	Rating        int    `gorm:"not null" json:"rating"` // 1..5
	Comment       string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type SubmitRequest struct {
	EventID uint   `json:"eventId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AnonymousFeedback is the organizer-facing view: ratings and comments
// without any participant identity.
type AnonymousFeedback struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats is the on-read rollup for one event.
type Stats struct {
	Count         int         `json:"count"`
	AverageRating float64     `json:"average_rating"`
	Histogram     map[int]int `json:"histogram"` // rating -> count
}
