package services

import (
	"context"
	"errors"
	"time"

	"solecare-backend/internal/events"
	"solecare-backend/internal/models"
	"solecare-backend/internal/repositories"
	"solecare-backend/internal/timeutil"
)

var ErrAppointmentInPast = errors.New("appointment must be scheduled in the future")

// AppointmentService owns drop-off scheduling
type AppointmentService struct {
	appointmentRepo *repositories.AppointmentRepository
	bus             *events.Bus
}

func NewAppointmentService(appointmentRepo *repositories.AppointmentRepository, bus *events.Bus) *AppointmentService {
	return &AppointmentService{appointmentRepo: appointmentRepo, bus: bus}
}

func (s *AppointmentService) Create(ctx context.Context, req *models.CreateAppointmentRequest) (*models.Appointment, error) {
	if req.ScheduledAt.Before(timeutil.Now()) {
		return nil, ErrAppointmentInPast
	}

	appointment := &models.Appointment{
		CustomerID:  req.CustomerID,
		BranchID:    req.BranchID,
		ScheduledAt: req.ScheduledAt.In(timeutil.PHT),
		Notes:       req.Notes,
		Status:      models.AppointmentScheduled,
	}
	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.bus.Publish(events.Change{
		EntityType: "appointment",
		EntityID:   appointment.ID,
		Kind:       events.ChangeCreated,
		Status:     string(appointment.Status),
	})
	return appointment, nil
}

// ListDay returns a branch's appointments for one calendar day
func (s *AppointmentService) ListDay(ctx context.Context, branchID string, day time.Time) ([]*models.Appointment, error) {
	from := timeutil.StartOfDay(day)
	return s.appointmentRepo.ListByBranchAndRange(ctx, branchID, from, from.AddDate(0, 0, 1))
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	if err := s.appointmentRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.bus.Publish(events.Change{
		EntityType: "appointment",
		EntityID:   id,
		Kind:       events.ChangeStatusUpdated,
		Status:     string(status),
	})
	return nil
}
