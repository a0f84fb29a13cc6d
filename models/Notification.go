package models

import "gorm.io/gorm"

// Notification is an in-app notification row.
type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"not null;index"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message" gorm:"type:text"`
	RefType string `json:"refType"`
	RefID   uint   `json:"refID"`
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
