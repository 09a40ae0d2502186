package entities

import (
	"github.com/google/uuid"
)

type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"type:varchar(32);uniqueIndex" json:"name"`
	Slug string    `gorm:"type:varchar(32);uniqueIndex" json:"slug"`
}
