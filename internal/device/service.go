package device

import (
	"context"
	"errors"
	"time"

	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

// Backend is the part of the booking API this package calls.
type Backend interface {
	AvailabilityBackend
	ListDevices(ctx context.Context) ([]client.Device, error)
	GetDevice(ctx context.Context, id int64) (*client.Device, error)
	CreateDevice(ctx context.Context, req client.DeviceRequest) (*client.Device, error)
	UpdateDevice(ctx context.Context, id int64, req client.DeviceRequest) (*client.Device, error)
	DeleteDevice(ctx context.Context, id int64) error
}

type Service struct {
	availability *Availability
	log          *logger.Logger
}

func NewService(availability *Availability, log *logger.Logger) *Service {
	return &Service{
		availability: availability,
		log:          log,
	}
}

func (s *Service) List(ctx context.Context, api Backend) ([]client.Device, error) {
	return api.ListDevices(ctx)
}

func (s *Service) Get(ctx context.Context, api Backend, id int64) (*client.Device, error) {
	return api.GetDevice(ctx, id)
}

// Available runs a debounced lookup for the slot. key identifies the
// caller whose earlier pending lookups get superseded.
func (s *Service) Available(ctx context.Context, api Backend, key string, start, end time.Time) ([]client.Device, error) {
	if !end.After(start) {
		return nil, apperrors.New(apperrors.CodeValidation, "end time must be after start time")
	}

	devices, err := s.availability.Lookup(ctx, key, api, start, end)
	if err != nil && !errors.Is(err, ErrSuperseded) {
		s.log.Error("device availability lookup failed", "error", err)
	}
	return devices, err
}

func (s *Service) Create(ctx context.Context, api Backend, form *DeviceForm) (*client.Device, error) {
	device, err := api.CreateDevice(ctx, form.toRequest())
	if err != nil {
		return nil, err
	}
	s.log.Info("device created", "id", device.ID, "name", device.Name)
	return device, nil
}

// Update replaces the device. An omitted status keeps the current one.
func (s *Service) Update(ctx context.Context, api Backend, id int64, form *DeviceForm) (*client.Device, error) {
	req := form.toRequest()
	if form.Status == "" {
		current, err := api.GetDevice(ctx, id)
		if err != nil {
			return nil, err
		}
		req.Status = current.Status
	}

	device, err := api.UpdateDevice(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("device updated", "id", id, "status", device.Status)
	return device, nil
}

func (s *Service) Delete(ctx context.Context, api Backend, id int64) error {
	if err := api.DeleteDevice(ctx, id); err != nil {
		return err
	}
	s.log.Info("device deleted", "id", id)
	return nil
}

type DeviceForm struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	Status      string `json:"status" validate:"omitempty,oneof=AVAILABLE UNDER_MAINTENANCE"`
}

func (f *DeviceForm) toRequest() client.DeviceRequest {
	status := client.ResourceStatus(f.Status)
	if status == "" {
		status = client.StatusAvailable
	}
	return client.DeviceRequest{
		Name:        f.Name,
		Description: f.Description,
		Status:      status,
	}
}
