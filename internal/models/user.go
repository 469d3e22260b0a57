package models

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(50);not null" json:"name"`
	Surname      string `gorm:"type:varchar(50);not null" json:"surname"`
	Email        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	RoleID       uint   `gorm:"not null;index" json:"role_id"`
	Role         Role   `gorm:"foreignKey:RoleID" json:"role"`
	Posts        []Post `gorm:"foreignKey:OwnerID" json:"-"`
	Timestamps
}
