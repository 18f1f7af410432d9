package models

import "time"

// Student is one submitted registration. EmailKey is the case-folded email
// and carries the uniqueness constraint; Email is stored as submitted.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	EmailKey  string    `gorm:"size:255;not null;uniqueIndex:uq_students_email_key" json:"-"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Course    string    `gorm:"size:255" json:"course"`
	CreatedAt time.Time `json:"created_at"`
}

func (Student) TableName() string {
	return "students"
}
