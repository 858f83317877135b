package models

type User struct {
	BaseModel
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name         string  `gorm:"type:varchar(255)" json:"name"`
	PasswordHash *string `gorm:"type:text" json:"-"`
	OAuthID      *string `gorm:"column:oauth_id;type:varchar(255);uniqueIndex" json:"-"`
	Image        string  `gorm:"type:text" json:"image,omitempty"`
}
