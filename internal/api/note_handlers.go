package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns the note for one date, or the most recent notes when no date is given",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes",
		Summary:     "Save note",
		Description: "Creates or replaces the user's note for one date",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Delete note",
		Description: "Deletes one of the user's notes",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteNote)
}

// === DTOs ===

// NoteResponse contains note information in API responses.
type NoteResponse struct {
	ID        string    `json:"id" doc:"Note ID"`
	Date      string    `json:"date" doc:"Calendar date (YYYY-MM-DD)"`
	Content   string    `json:"content" doc:"Note content"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ListNotesInput carries the optional date filter and result limit.
type ListNotesInput struct {
	Date  string `query:"date" doc:"Calendar date (YYYY-MM-DD); when set, returns only that day's note"`
	Limit int    `query:"limit" minimum:"1" maximum:"100" doc:"Maximum notes to return (default 30)"`
}

// ListNotesResponse contains notes ordered newest first.
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}

// ListNotesOutput wraps the note list for Huma.
type ListNotesOutput struct {
	Body ListNotesResponse
}

// SaveNoteRequest is the request body for saving a note.
type SaveNoteRequest struct {
	Date    string `json:"date" validate:"required" doc:"Calendar date (YYYY-MM-DD)"`
	Content string `json:"content" validate:"required,max=10000" doc:"Note content"`
}

// SaveNoteInput wraps the save request for Huma.
type SaveNoteInput struct {
	Body SaveNoteRequest
}

// NoteOutput wraps a single note for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// DeleteNoteInput identifies the note to delete.
type DeleteNoteInput struct {
	ID string `path:"id" doc:"Note ID"`
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, input *ListNotesInput) (*ListNotesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if input.Date != "" {
		note, err := s.services.Note.GetNoteForDate(ctx, userID, input.Date)
		if err != nil {
			return nil, err
		}
		return &ListNotesOutput{Body: ListNotesResponse{Notes: []NoteResponse{mapNoteResponse(note)}}}, nil
	}

	limit := input.Limit
	if limit == 0 {
		limit = 30
	}

	notes, err := s.services.Note.ListNotes(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	resp := ListNotesResponse{Notes: make([]NoteResponse, 0, len(notes))}
	for _, note := range notes {
		resp.Notes = append(resp.Notes, mapNoteResponse(note))
	}

	return &ListNotesOutput{Body: resp}, nil
}

func (s *Server) handleSaveNote(ctx context.Context, input *SaveNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.SaveNote(ctx, userID, service.SaveNoteRequest{
		Date:    input.Body.Date,
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *DeleteNoteInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Note.DeleteNote(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Note deleted"}}, nil
}

// === Helpers ===

func mapNoteResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Date:      note.Date.Format(domain.DateFormat),
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
