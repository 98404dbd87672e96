package entity

const (
	RoleRecruiter = 1
	RoleApplicant = 2
)

type Role struct {
	RoleID int    `gorm:"column:role_id;primaryKey;autoIncrement:false" json:"role_id"`
	Name   string `gorm:"size:255;uniqueIndex;not null" json:"name"`
}

func (Role) TableName() string { return "role" }

// Person is an account. Registration always creates applicants; recruiters
// are provisioned out of band.
type Person struct {
	PersonID int64  `gorm:"column:person_id;primaryKey" json:"person_id"`
	Name     string `gorm:"size:255" json:"name"`
	Surname  string `gorm:"size:255" json:"surname"`
	Pnr      string `gorm:"size:255" json:"pnr"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	RoleID   int    `gorm:"not null;index" json:"role_id"`
	Username string `gorm:"size:255;uniqueIndex;not null" json:"username"`

	Role *Role `gorm:"foreignKey:RoleID;references:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Person) TableName() string { return "person" }
