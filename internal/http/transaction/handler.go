package transaction

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

// maxUpload caps CSV imports.
const maxUpload = 10 << 20

// Categories learns categories from saved transactions and fills them in
// for imported rows that have none.
type Categories interface {
	Learn(ctx context.Context, description, category string) error
	Fill(ctx context.Context, rows []transaction.CreateParams) int
}

type Handler struct {
	svc        *transaction.Service
	categories Categories
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) WithCategories(c Categories) *Handler {
	h.categories = c
	return h
}

// learn never fails the request that saved tx.
func (h *Handler) learn(ctx context.Context, tx *transaction.Transaction) {
	if h.categories == nil {
		return
	}

	if err := h.categories.Learn(ctx, tx.Description, tx.Category); err != nil {
		slog.Warn("failed to learn category", "transaction_id", tx.ID, "error", err)
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/import", h.importCSV)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// SplitRoutes is mounted under /splits.
func (h *Handler) SplitRoutes(r chi.Router) {
	r.Patch("/{id}", h.updateSplit)
}

type createTransactionRequest struct {
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Date        respond.Date     `json:"date"`
	PaidBy      string           `json:"paidBy"`
	IsShared    bool             `json:"isShared"`
	GroupID     *uuid.UUID       `json:"groupId"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date.Time,
		PaidBy:      req.PaidBy,
		IsShared:    req.IsShared,
		GroupID:     req.GroupID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.Category != "" {
		h.learn(r.Context(), res.Transaction)
	}

	respond.JSON(w, http.StatusCreated, createResponse{
		transactionResponse: toResponse(res.Transaction),
		Warnings:            res.Warnings,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)

	filter := transaction.ListFilter{
		GroupID:   q.UUID("groupId"),
		Category:  q.String("category"),
		PaidBy:    q.String("paidBy"),
		StartDate: q.Date("startDate"),
		EndDate:   q.DateEnd("endDate"),
	}

	if s := q.String("search"); s != nil {
		filter.Search = *s
	}

	if s := q.String("type"); s != nil {
		t := transaction.Type(*s)
		if !t.Valid() {
			respond.Error(w, r, validation.New("type", "must be one of: income expense"))
			return
		}

		filter.Type = &t
	}

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

type updateTransactionRequest struct {
	Type        *transaction.Type `json:"type"`
	Amount      *decimal.Decimal  `json:"amount"`
	Description *string           `json:"description"`
	Category    *string           `json:"category"`
	Date        *respond.Date     `json:"date"`
	PaidBy      *string           `json:"paidBy"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := transaction.UpdateParams{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		PaidBy:      req.PaidBy,
	}
	if req.Date != nil {
		params.Date = &req.Date.Time
	}

	tx, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.Category != nil {
		h.learn(r.Context(), tx)
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

// importCSV creates every row of an uploaded ledger CSV in one write.
// Rows without a person fall back to the paidBy form field.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Error(w, r, validation.New("file", "expected a multipart upload"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, validation.New("file", "is required"))
		return
	}
	defer file.Close()

	params, err := importer.NewParser(r.FormValue("paidBy")).Parse(file)
	if err != nil {
		respond.Error(w, r, validation.New("file", err.Error()))
		return
	}

	if len(params) == 0 {
		respond.Error(w, r, validation.New("file", "no transactions found"))
		return
	}

	if h.categories != nil {
		h.categories.Fill(r.Context(), params)
	}

	txs, err := h.svc.CreateBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Imported:     len(txs),
		Transactions: toResponseList(txs),
	})
}

type updateSplitRequest struct {
	IsPaid *bool `json:"isPaid"`
}

func (h *Handler) updateSplit(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateSplitRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.IsPaid == nil {
		respond.Error(w, r, validation.New("isPaid", "is required"))
		return
	}

	sp, err := h.svc.SetSplitPaid(r.Context(), id, *req.IsPaid)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSplitResponse(sp))
}
