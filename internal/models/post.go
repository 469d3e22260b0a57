package models

type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	OwnerID uint   `gorm:"not null;index" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner"`
	Tags    []Tag  `gorm:"many2many:post_tag;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tags"`
	Timestamps
}

// OwnedBy returns the id of the user that owns the post
func (p *Post) OwnedBy() uint {
	return p.OwnerID
}
