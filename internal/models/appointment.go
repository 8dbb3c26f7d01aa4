package models

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Scheduled"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
	AppointmentNoShow    AppointmentStatus = "NoShow"
)

type Appointment struct {
	ID          string            `json:"id"`
	CustomerID  string            `json:"customer_id"`
	BranchID    string            `json:"branch_id"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Notes       string            `json:"notes"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

type CreateAppointmentRequest struct {
	CustomerID  string    `json:"customer_id"`
	BranchID    string    `json:"branch_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes"`
}
