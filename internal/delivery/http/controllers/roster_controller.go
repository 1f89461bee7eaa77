package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"rsvpbot/internal/delivery/http/helpers"
	"rsvpbot/internal/domain"
)

// RosterResponse is the body of GET /events/{eventID}/roster.
type RosterResponse struct {
	Event     *domain.Event      `json:"event"`
	Text      string             `json:"text"`
	Total     int                `json:"total"`
	Attendees []*domain.Attendee `json:"attendees"`
}

// RosterSuccessResponse is the success envelope for GET /events/{eventID}/roster (200).
type RosterSuccessResponse struct {
	Data  *RosterResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type RosterController struct {
	Logger    *slog.Logger
	Events    domain.EventService
	Attendees domain.AttendeeRepository
	Roster    domain.RosterService
}

func NewRosterController(logger *slog.Logger, events domain.EventService, attendees domain.AttendeeRepository, roster domain.RosterService) *RosterController {
	return &RosterController{
		Logger:    logger,
		Events:    events,
		Attendees: attendees,
		Roster:    roster,
	}
}

// GetRoster godoc
// @Summary Get an event roster
// @Description Returns the event, its attendee rows and the announcement text exactly as it is rendered in the chat.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.RosterSuccessResponse "data contains the roster"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/roster [get]
func (c *RosterController) GetRoster(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathInt64(w, r, "eventID")
	if !ok {
		return
	}
	ctx := r.Context()

	event, err := c.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.fail(w, r, err)
		return
	}
	attendees, err := c.Attendees.ListByEvent(ctx, eventID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	text, err := c.Roster.Render(ctx, event)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if attendees == nil {
		attendees = []*domain.Attendee{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &RosterResponse{
		Event:     event,
		Text:      text,
		Total:     len(attendees),
		Attendees: attendees,
	})
}

func (c *RosterController) fail(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
}
