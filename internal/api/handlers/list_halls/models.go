package list_halls

import (
	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

// HallsResponse список залов и правила бронирования
type HallsResponse struct {
	Halls  []Hall `json:"halls"`
	Policy Policy `json:"policy"`
}

// Hall зал, доступный для бронирования
type Hall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Policy часы работы и ограничения длительности
type Policy struct {
	OpenTime           string `json:"openTime"`
	CloseTime          string `json:"closeTime"`
	MinDurationMinutes int    `json:"minDurationMinutes"`
	MaxDurationMinutes int    `json:"maxDurationMinutes"`
}

// NewHallsResponse собирает ответ из фиксированного набора залов и политики
func NewHallsResponse(halls []domain.HallID, policy scheduling.Policy) (*HallsResponse, error) {
	resp := &HallsResponse{
		Halls: make([]Hall, len(halls)),
	}
	for i, h := range halls {
		resp.Halls[i] = Hall{ID: string(h), Name: h.DisplayName()}
	}

	openTime, err := types.NewTimeStringFromMinutes(policy.Open)
	if err != nil {
		return nil, err
	}
	// 24:00 не представимо в HH:MM
	closeTime, err := types.NewTimeStringFromMinutes(policy.Close)
	if err != nil {
		return nil, err
	}

	resp.Policy = Policy{
		OpenTime:           openTime.String(),
		CloseTime:          closeTime.String(),
		MinDurationMinutes: policy.MinDuration,
		MaxDurationMinutes: policy.MaxDuration,
	}
	return resp, nil
}
