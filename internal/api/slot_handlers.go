package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/service"
)

func (s *Server) registerSlotRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDaySlots",
		Method:      http.MethodGet,
		Path:        "/api/v1/slots",
		Summary:     "Get slots for a date",
		Description: "Returns the recorded ten-minute slots for one date, ordered by slot index",
		Tags:        []string{"Slots"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetDaySlots)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveSlots",
		Method:      http.MethodPut,
		Path:        "/api/v1/slots",
		Summary:     "Save slots",
		Description: "Assigns tags to a set of slots on one date; existing entries are overwritten",
		Tags:        []string{"Slots"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveSlots)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSlots",
		Method:      http.MethodDelete,
		Path:        "/api/v1/slots",
		Summary:     "Delete slots",
		Description: "Clears a set of slots on one date; an empty index list clears the whole day",
		Tags:        []string{"Slots"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteSlots)
}

// === DTOs ===

// SlotResponse contains one recorded slot in API responses.
type SlotResponse struct {
	SlotIndex int    `json:"slot_index" doc:"Slot index within the day (0-143)"`
	Label     string `json:"label" doc:"Covered time range, e.g. 09:30-09:40"`
	TagID     string `json:"tag_id,omitempty" doc:"Assigned tag ID, empty when the tag was deleted"`
	Memo      string `json:"memo,omitempty" doc:"Free-form memo"`
}

// DaySlotsResponse contains all recorded slots for one date.
type DaySlotsResponse struct {
	Date  string         `json:"date" doc:"Calendar date (YYYY-MM-DD)"`
	Slots []SlotResponse `json:"slots" doc:"Recorded slots ordered by index"`
}

// GetDaySlotsInput carries the date query parameter.
type GetDaySlotsInput struct {
	Date string `query:"date" required:"true" doc:"Calendar date (YYYY-MM-DD)"`
}

// DaySlotsOutput wraps the day view for Huma.
type DaySlotsOutput struct {
	Body DaySlotsResponse
}

// SlotEntryRequest is one slot assignment within a save request.
type SlotEntryRequest struct {
	SlotIndex int    `json:"slot_index" validate:"min=0,max=143" doc:"Slot index within the day"`
	TagID     string `json:"tag_id" validate:"required" doc:"Tag to assign"`
	Memo      string `json:"memo,omitempty" validate:"max=500" doc:"Optional memo"`
}

// SaveSlotsRequest is the request body for a slot save.
type SaveSlotsRequest struct {
	Date  string             `json:"date" validate:"required" doc:"Calendar date (YYYY-MM-DD)"`
	Slots []SlotEntryRequest `json:"slots" validate:"required,min=1,max=144,dive" doc:"Slot assignments"`
}

// SaveSlotsInput wraps the save request for Huma.
type SaveSlotsInput struct {
	Body SaveSlotsRequest
}

// DeleteSlotsRequest is the request body for a slot delete.
type DeleteSlotsRequest struct {
	Date        string `json:"date" validate:"required" doc:"Calendar date (YYYY-MM-DD)"`
	SlotIndexes []int  `json:"slot_indexes,omitempty" validate:"max=144,dive,min=0,max=143" doc:"Slot indexes to clear; empty clears the whole day"`
}

// DeleteSlotsInput wraps the delete request for Huma.
type DeleteSlotsInput struct {
	Body DeleteSlotsRequest
}

// === Handlers ===

func (s *Server) handleGetDaySlots(ctx context.Context, input *GetDaySlotsInput) (*DaySlotsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	slots, err := s.services.Slot.GetDay(ctx, userID, input.Date)
	if err != nil {
		return nil, err
	}

	return &DaySlotsOutput{Body: mapDaySlots(input.Date, slots)}, nil
}

func (s *Server) handleSaveSlots(ctx context.Context, input *SaveSlotsInput) (*DaySlotsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := service.SaveSlotsRequest{
		Date:  input.Body.Date,
		Slots: make([]service.SlotEntry, 0, len(input.Body.Slots)),
	}
	for _, entry := range input.Body.Slots {
		req.Slots = append(req.Slots, service.SlotEntry{
			SlotIndex: entry.SlotIndex,
			TagID:     entry.TagID,
			Memo:      entry.Memo,
		})
	}

	slots, err := s.services.Slot.SaveSlots(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &DaySlotsOutput{Body: mapDaySlots(input.Body.Date, slots)}, nil
}

func (s *Server) handleDeleteSlots(ctx context.Context, input *DeleteSlotsInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	err = s.services.Slot.DeleteSlots(ctx, userID, service.DeleteSlotsRequest{
		Date:        input.Body.Date,
		SlotIndexes: input.Body.SlotIndexes,
	})
	if err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Slots deleted"}}, nil
}

// === Helpers ===

func mapDaySlots(date string, slots []*domain.TimeSlot) DaySlotsResponse {
	resp := DaySlotsResponse{
		Date:  date,
		Slots: make([]SlotResponse, 0, len(slots)),
	}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, SlotResponse{
			SlotIndex: slot.SlotIndex,
			Label:     domain.SlotLabel(slot.SlotIndex),
			TagID:     slot.TagID,
			Memo:      slot.Memo,
		})
	}
	return resp
}
