package models

type SharedGrant struct {
	BaseModel
	OwnerID uint  `gorm:"not null;uniqueIndex:idx_grant_owner_user_item" json:"owner_id"`
	UserID  uint  `gorm:"not null;uniqueIndex:idx_grant_owner_user_item;index" json:"user_id"`
	ItemID  uint  `gorm:"not null;uniqueIndex:idx_grant_owner_user_item;index" json:"item_id"`
	User    *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
