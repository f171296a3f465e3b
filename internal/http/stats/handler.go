package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/profile"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

// ProfileReader resolves a userId query parameter to the name the user
// records transactions under.
type ProfileReader interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
}

type Handler struct {
	svc      *balance.Service
	profiles ProfileReader
	now      func() time.Time
}

func NewHandler(svc *balance.Service, profiles ProfileReader) *Handler {
	return &Handler{svc: svc, profiles: profiles, now: time.Now}
}

func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/monthly", h.monthly)
}

type statsResponse struct {
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	GroupID       *uuid.UUID `json:"groupId,omitempty"`
	PaidBy        *string    `json:"paidBy,omitempty"`
	TotalIncome   string     `json:"totalIncome"`
	TotalExpenses string     `json:"totalExpenses"`
	NetBalance    string     `json:"netBalance"`
}

// monthly reports totals for a period. Explicit startDate/endDate win over
// year/month and either may be left open; with neither the current month is
// used.
func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)

	var (
		start   = q.Date("startDate")
		end     = q.DateEnd("endDate")
		year    = q.Int("year")
		month   = q.Int("month")
		groupID = q.UUID("groupId")
		paidBy  = q.String("paidBy")
		userID  = q.String("userId")
	)

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	from, to, err := h.period(start, end, year, month)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if userID != nil {
		p, err := h.profiles.Get(r.Context(), *userID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		paidBy = &p.PublicName
	}

	stats, err := h.svc.Stats(r.Context(), balance.Filter{
		Start:   from,
		End:     to,
		GroupID: groupID,
		PaidBy:  paidBy,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, statsResponse{
		StartDate:     from,
		EndDate:       to,
		GroupID:       groupID,
		PaidBy:        paidBy,
		TotalIncome:   respond.Money(stats.TotalIncome),
		TotalExpenses: respond.Money(stats.TotalExpenses),
		NetBalance:    respond.Money(stats.NetBalance),
	})
}

func (h *Handler) period(start, end *time.Time, year, month *int) (*time.Time, *time.Time, error) {
	if start != nil || end != nil {
		if start != nil && end != nil && end.Before(*start) {
			return nil, nil, validation.New("endDate", "must not be before startDate")
		}

		return start, end, nil
	}

	now := h.now().UTC()
	y, m := now.Year(), now.Month()

	if month != nil && (*month < 1 || *month > 12) {
		return nil, nil, validation.New("month", "must be between 1 and 12")
	}

	switch {
	case year != nil && month == nil:
		from := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return &from, new(respond.EndOfDay(from.AddDate(1, 0, -1))), nil
	case year != nil:
		y = *year
	}

	if month != nil {
		m = time.Month(*month)
	}

	from := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	return &from, new(respond.EndOfDay(from.AddDate(0, 1, -1))), nil
}
