package update_booking_status

import (
	"github.com/m04kA/SMC-HallBooking/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status             string  `json:"status"` // confirmed | completed | cancelled
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(userID int64, isStaff bool) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		UserID:             userID,
		IsStaff:            isStaff,
		Status:             r.Status,
		CancellationReason: r.CancellationReason,
	}
}
