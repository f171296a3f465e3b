package group

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

type Handler struct {
	groups   *group.Service
	balances *balance.Service
}

func NewHandler(groups *group.Service, balances *balance.Service) *Handler {
	return &Handler{groups: groups, balances: balances}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/balances", h.groupBalances)
	r.Post("/{id}/members", h.addMember)
	r.Patch("/{id}/members/{memberId}", h.updateMember)
	r.Delete("/{id}/members/{memberId}", h.removeMember)
	r.Put("/{id}/members/{memberId}/balance", h.setOpeningBalance)
}

type memberRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

func (m memberRequest) params() group.MemberParams {
	return group.MemberParams{Name: m.Name, Email: m.Email, OpeningBalance: m.OpeningBalance}
}

type createGroupRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Members     []memberRequest `json:"members"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := group.CreateParams{Name: req.Name, Description: req.Description}
	for _, m := range req.Members {
		params.Members = append(params.Members, m.params())
	}

	g, err := h.groups.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(g))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toResponse(g)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	g, err := h.groups.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.groups.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) groupBalances(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.balances.GroupBalances(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBalancesResponse(b))
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req memberRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.groups.AddMember(r.Context(), id, req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toMemberResponse(m))
}

type updateMemberRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, err := memberPath(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateMemberRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.groups.UpdateMember(r.Context(), groupID, memberID, group.UpdateMemberParams{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toMemberResponse(m))
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, err := memberPath(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.groups.RemoveMember(r.Context(), groupID, memberID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type openingBalanceRequest struct {
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
}

func (h *Handler) setOpeningBalance(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, err := memberPath(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req openingBalanceRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.OpeningBalance == nil {
		respond.Error(w, r, validation.New("openingBalance", "is required"))
		return
	}

	adj, err := h.balances.AdjustOpeningBalance(r.Context(), groupID, memberID, *req.OpeningBalance)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAdjustmentResponse(adj))
}

func memberPath(r *http.Request) (groupID, memberID uuid.UUID, err error) {
	if groupID, err = respond.UUIDParam(r, "id"); err != nil {
		return groupID, memberID, err
	}

	memberID, err = respond.UUIDParam(r, "memberId")

	return groupID, memberID, err
}
