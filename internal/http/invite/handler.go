package invite

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/invite"
)

// Rejections receives the reason of every refused redemption.
type Rejections interface {
	InviteRejected(reason string)
}

type Handler struct {
	svc        *invite.Service
	rejections Rejections
}

func NewHandler(svc *invite.Service, rejections Rejections) *Handler {
	return &Handler{svc: svc, rejections: rejections}
}

// GroupRoutes is mounted under /groups/{id}/invites.
func (h *Handler) GroupRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

// Routes is mounted under /invites.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{code}", h.lookup)
	r.Post("/{code}/join", h.join)
	r.Patch("/{id}/deactivate", h.deactivate)
}

type inviteResponse struct {
	ID          uuid.UUID  `json:"id"`
	GroupID     uuid.UUID  `json:"groupId"`
	Code        string     `json:"inviteCode"`
	InvitedBy   string     `json:"invitedBy"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	MaxUses     *int       `json:"maxUses"`
	CurrentUses int        `json:"currentUses"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toResponse(inv *invite.Invite) inviteResponse {
	return inviteResponse{
		ID:          inv.ID,
		GroupID:     inv.GroupID,
		Code:        inv.Code,
		InvitedBy:   inv.InvitedBy,
		ExpiresAt:   inv.ExpiresAt,
		MaxUses:     inv.MaxUses,
		CurrentUses: inv.CurrentUses,
		IsActive:    inv.IsActive,
		CreatedAt:   inv.CreatedAt,
	}
}

type groupSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MemberCount int       `json:"memberCount"`
}

func toGroupSummary(g *group.Group) groupSummary {
	return groupSummary{ID: g.ID, Name: g.Name, Description: g.Description, MemberCount: g.MemberCount}
}

type createInviteRequest struct {
	InvitedBy string        `json:"invitedBy"`
	MaxUses   *int          `json:"maxUses"`
	ExpiresAt *respond.Date `json:"expiresAt"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	groupID, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req createInviteRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := invite.CreateParams{
		GroupID:   groupID,
		InvitedBy: req.InvitedBy,
		MaxUses:   req.MaxUses,
	}
	if req.ExpiresAt != nil {
		params.ExpiresAt = &req.ExpiresAt.Time
	}

	inv, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(inv))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	groupID, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	invites, err := h.svc.ListByGroup(r.Context(), groupID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]inviteResponse, len(invites))
	for i, inv := range invites {
		resp[i] = toResponse(inv)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type lookupResponse struct {
	Invite inviteResponse `json:"invite"`
	Group  groupSummary   `json:"group"`
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	inv, g, err := h.svc.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, lookupResponse{Invite: toResponse(inv), Group: toGroupSummary(g)})
}

type joinRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type joinResponse struct {
	Invite   inviteResponse `json:"invite"`
	Group    groupSummary   `json:"group"`
	MemberID uuid.UUID      `json:"memberId"`
	Name     string         `json:"name"`
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.Redeem(r.Context(), chi.URLParam(r, "code"), invite.RedeemParams{
		MemberName:  req.Name,
		MemberEmail: req.Email,
	})
	if err != nil {
		h.reject(err)
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, joinResponse{
		Invite:   toResponse(res.Invite),
		Group:    toGroupSummary(res.Group),
		MemberID: res.Member.ID,
		Name:     res.Member.Name,
	})
}

func (h *Handler) reject(err error) {
	if h.rejections == nil {
		return
	}

	switch {
	case errors.Is(err, invite.ErrExpired):
		h.rejections.InviteRejected("expired")
	case errors.Is(err, invite.ErrExhausted):
		h.rejections.InviteRejected("exhausted")
	case errors.Is(err, invite.ErrNotFound):
		h.rejections.InviteRejected("not_found")
	case errors.Is(err, group.ErrDuplicateMember):
		h.rejections.InviteRejected("duplicate_member")
	}
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := respond.UUIDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}
