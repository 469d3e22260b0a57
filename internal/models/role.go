package models

const (
	RoleAdmin      = "admin"
	RoleCantEdit   = "cant_edit"
	RoleCantDelete = "cant_delete"
)

// DefaultRoles are inserted at startup when missing
var DefaultRoles = []string{RoleAdmin, RoleCantEdit, RoleCantDelete}

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}
