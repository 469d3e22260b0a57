package models

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Posts []Post `gorm:"many2many:post_tag;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"posts"`
	Timestamps
}
