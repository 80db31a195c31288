package models

import "time"

// LabelScan records one uploaded label image and what recognition
// read out of it. Failed scans are kept so the user can re-shoot the
// label instead of wondering where it went.
type LabelScan struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null"`
	Kind      string `gorm:"size:16;not null"` // "product" or "expiry"
	FileName  string `gorm:"size:255;not null"`
	StorePath string `gorm:"column:store_path;size:512"`
	Text      string `gorm:"type:text"` // recognized text, single line
	Failed    bool   `gorm:"default:false;index"`
	Reason    string `gorm:"size:255"`
}
