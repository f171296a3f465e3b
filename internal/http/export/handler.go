package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/pdf", h.render(export.FormatPDF))
	r.Post("/excel", h.render(export.FormatExcel))
	r.Post("/text", h.render(export.FormatText))
}

type exportRequest struct {
	Title     string            `json:"title"`
	StartDate *respond.Date     `json:"startDate"`
	EndDate   *respond.Date     `json:"endDate"`
	GroupID   *uuid.UUID        `json:"groupId"`
	Type      *transaction.Type `json:"type"`
	Category  *string           `json:"category"`
	PaidBy    *string           `json:"paidBy"`
	Search    string            `json:"search"`
}

func (req exportRequest) filter() (transaction.ListFilter, error) {
	filter := transaction.ListFilter{
		GroupID:  req.GroupID,
		Type:     req.Type,
		Category: req.Category,
		PaidBy:   req.PaidBy,
		Search:   req.Search,
	}

	if req.Type != nil && !req.Type.Valid() {
		return filter, validation.New("type", "must be one of: income expense")
	}

	if req.StartDate != nil {
		filter.StartDate = &req.StartDate.Time
	}

	if req.EndDate != nil {
		filter.EndDate = new(respond.EndOfDay(req.EndDate.Time))
	}

	return filter, nil
}

// render buffers the whole file so a failure can still be reported as JSON.
func (h *Handler) render(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportRequest
		if r.ContentLength != 0 {
			if err := respond.Decode(r, &req); err != nil {
				respond.Error(w, r, err)
				return
			}
		}

		filter, err := req.filter()
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		report, err := h.svc.Report(r.Context(), req.Title, filter)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, format, report); err != nil {
			respond.Error(w, r, fmt.Errorf("rendering %s export: %w", format, err))
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=\"ledger_%s%s\"", report.GeneratedAt.Format("20060102"), format.Extension()))

		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("failed to write export", "format", format, "error", err)
		}
	}
}
