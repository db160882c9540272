package models

import "time"

type MeetingType int

const (
	MeetingTypeGeneral       MeetingType = 1
	MeetingTypeBrainstorming MeetingType = 2
	MeetingTypeSprint        MeetingType = 3
	MeetingTypeReview        MeetingType = 4
)

// Valid reports whether t is a known meeting type
func (t MeetingType) Valid() bool {
	return t >= MeetingTypeGeneral && t <= MeetingTypeReview
}

func (t MeetingType) String() string {
	switch t {
	case MeetingTypeGeneral:
		return "General"
	case MeetingTypeBrainstorming:
		return "Brainstorming"
	case MeetingTypeSprint:
		return "Daily Stand up"
	case MeetingTypeReview:
		return "Sprint Review"
	default:
		return "Unknown"
	}
}

// Meeting is one dated occurrence. Occurrences created from one recurrence
// request share RecurrenceID. Cancelled meetings keep their row and carry a
// CancelReason. Sequence counts the updates and cancellations sent to
// attendees' calendars.
type Meeting struct {
	ID              uint64      `gorm:"primarykey" json:"id"`
	Type            MeetingType `gorm:"not null;index" json:"type"`
	Title           string      `gorm:"type:varchar(255);not null" json:"title"`
	Description     string      `gorm:"type:text" json:"description"`
	Link            string      `gorm:"type:varchar(500)" json:"link"`
	StartDate       string      `gorm:"type:varchar(10);not null;index" json:"start_date"`
	EndDate         string      `gorm:"type:varchar(10);not null" json:"end_date"`
	StartTime       string      `gorm:"type:varchar(8);not null" json:"start_time"`
	EndTime         string      `gorm:"type:varchar(8);not null" json:"end_time"`
	Duration        string      `gorm:"type:varchar(8);not null" json:"duration"`
	ProductID       uint64      `gorm:"not null;index" json:"product_id"`
	SprintID        *uint64     `gorm:"index" json:"sprint_id"`
	CreatorID       uint64      `gorm:"not null" json:"creator_id"`
	UpdaterID       *uint64     `json:"updater_id"`
	RecurrenceID    *string     `gorm:"type:varchar(36);index" json:"recurrence_id"`
	CancelReason    *string     `gorm:"type:text" json:"cancel_reason"`
	ExternalIssueID *uint64     `json:"external_issue_id"`
	IsLogged        bool        `gorm:"not null;default:false" json:"is_logged"`
	Sequence        int         `gorm:"not null;default:0" json:"sequence"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Relations
	Creator         Employee         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Product         Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Members         []MeetingMember  `gorm:"foreignKey:MeetingID" json:"members,omitempty"`
	BrainstormItems []BrainstormItem `gorm:"foreignKey:MeetingID" json:"brainstorm_items,omitempty"`
}

// Cancelled reports whether the meeting has been cancelled
func (m Meeting) Cancelled() bool {
	return m.CancelReason != nil
}
