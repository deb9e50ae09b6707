package model

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username   string   `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email      string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password   string   `gorm:"size:100;not null" json:"-"`
	ProfilePic string   `gorm:"size:255" json:"profile_pic"`
	Role       UserRole `gorm:"size:16;default:'student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}
