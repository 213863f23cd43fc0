package models

import "time"

type LeadStatus string

const (
	StatusPending   LeadStatus = "pending"
	StatusConfirmed LeadStatus = "confirmed"
	StatusCancelled LeadStatus = "cancelled"
)

// Lead is the only persisted entity: one appointment request captured from
// the website form, the chat widget, or a debug helper. Cancellation is a
// status value, rows are never deleted.
type Lead struct {
	BookingID       string     `gorm:"primaryKey;column:booking_id;size:36" json:"booking_id"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"timestamp_utc"`
	Status          LeadStatus `gorm:"column:status;size:16;index" json:"status"`
	Name            string     `gorm:"column:name;size:255" json:"name"`
	Email           string     `gorm:"column:email;size:255" json:"email"`
	Phone           string     `gorm:"column:phone;size:50" json:"phone"`
	Service         string     `gorm:"column:service;size:255" json:"service"`
	AppointmentDate string     `gorm:"column:appointment_date;size:10;index" json:"appointment_date"`
	AppointmentTime string     `gorm:"column:appointment_time;size:5" json:"appointment_time"`
	Paid            bool       `gorm:"column:paid;default:false" json:"paid"`
}

func (Lead) TableName() string { return "leads" }

// LeadInput carries the caller-supplied fields for a new lead. The binding
// tags cover presence; date/time formats are checked separately.
type LeadInput struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email"`
	Phone           string `json:"phone" binding:"required,min=5"`
	Service         string `json:"service" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required"` // YYYY-MM-DD
	AppointmentTime string `json:"appointment_time" binding:"required"` // HH:MM
}
