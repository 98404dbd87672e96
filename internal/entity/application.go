package entity

import "time"

type Competence struct {
	CompetenceID int64  `gorm:"column:competence_id;primaryKey" json:"competence_id"`
	Name         string `gorm:"size:255;uniqueIndex;not null" json:"name"`
}

func (Competence) TableName() string { return "competence" }

// CompetenceProfile is one line of an application. A nil Status means the
// line has not been handled by a recruiter yet.
type CompetenceProfile struct {
	CompetenceProfileID int64   `gorm:"column:competence_profile_id;primaryKey" json:"competence_profile_id"`
	PersonID            int64   `gorm:"not null;index" json:"person_id"`
	CompetenceID        int64   `gorm:"not null" json:"competence_id"`
	YearsOfExperience   float64 `gorm:"type:numeric(4,2);not null" json:"years_of_experience"`
	Status              *string `gorm:"size:255" json:"status"`

	Person     *Person     `gorm:"foreignKey:PersonID;references:PersonID;constraint:OnDelete:CASCADE" json:"-"`
	Competence *Competence `gorm:"foreignKey:CompetenceID;references:CompetenceID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (CompetenceProfile) TableName() string { return "competence_profile" }

type Availability struct {
	AvailabilityID int64     `gorm:"column:availability_id;primaryKey" json:"availability_id"`
	PersonID       int64     `gorm:"not null;index" json:"person_id"`
	FromDate       time.Time `gorm:"type:date;not null" json:"from_date"`
	ToDate         time.Time `gorm:"type:date;not null" json:"to_date"`

	Person *Person `gorm:"foreignKey:PersonID;references:PersonID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Availability) TableName() string { return "availability" }

type Status string

const (
	StatusUnhandled Status = "unhandled"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusUnhandled, StatusAccepted, StatusRejected:
		return Status(s), true
	}
	return "", false
}

// Column is the stored value; unhandled is NULL.
func (s Status) Column() *string {
	if s == StatusUnhandled || s == "" {
		return nil
	}
	v := string(s)
	return &v
}
