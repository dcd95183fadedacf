package models

import (
	"time"
)

type Item struct {
	ID      string `json:"id" gorm:"primaryKey;type:text"`
	OwnerID string `json:"ownerId" gorm:"type:text;index;not null"`
	Kind    string `json:"kind" gorm:"type:text;not null"`
	// Data is the serialized PastedContent wire form.
	Data string `json:"data" gorm:"type:text;not null"`
	// CDate is assigned by the repository; listing orders by it.
	CDate time.Time `json:"cdate" gorm:"->;<-:create;index;not null"`
}
