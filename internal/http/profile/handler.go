package profile

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/profile"
)

// Handler serves the caller's profile. Every route expects auth.Middleware
// in front of it.
type Handler struct {
	svc *profile.Service
}

func NewHandler(svc *profile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.me)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type profileResponse struct {
	ID         string    `json:"id"`
	PublicName string    `json:"publicName"`
	Email      string    `json:"email,omitempty"`
	Currency   string    `json:"currency"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toResponse(p *profile.Profile) profileResponse {
	return profileResponse{
		ID:         p.ID,
		PublicName: p.PublicName,
		Email:      p.Email,
		Currency:   p.Currency,
		Language:   p.Language,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type createProfileRequest struct {
	PublicName string `json:"publicName"`
	Email      string `json:"email"`
	Currency   string `json:"currency"`
	Language   string `json:"language"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req createProfileRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.Create(r.Context(), userID, profile.CreateParams{
		PublicName: req.PublicName,
		Email:      req.Email,
		Currency:   req.Currency,
		Language:   req.Language,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	p, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateProfileRequest struct {
	PublicName *string `json:"publicName"`
	Email      *string `json:"email"`
	Currency   *string `json:"currency"`
	Language   *string `json:"language"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := ownID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.Update(r.Context(), id, profile.UpdateParams{
		PublicName: req.PublicName,
		Email:      req.Email,
		Currency:   req.Currency,
		Language:   req.Language,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ownID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownID returns the {id} path parameter when it is the caller's own profile.
func ownID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")

	if userID, _ := auth.UserID(r.Context()); userID != id {
		respond.JSON(w, http.StatusForbidden, map[string]string{"error": "profiles can only be changed by their owner"})
		return "", false
	}

	return id, true
}
