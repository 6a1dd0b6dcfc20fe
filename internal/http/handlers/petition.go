package handlers

import (
	"net/http"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/app"
	"github.com/nahuelmendez6/int-com-back/internal/http/middleware"
	"github.com/nahuelmendez6/int-com-back/internal/http/response"
)

type PetitionHandler struct {
	petitions *app.PetitionService
}

func NewPetitionHandler(petitions *app.PetitionService) *PetitionHandler {
	return &PetitionHandler{petitions: petitions}
}

type petitionRequest struct {
	Description    string     `json:"description"`
	TypeID         *int64     `json:"type_id"`
	ProfessionID   *int64     `json:"profession_id"`
	TypeProviderID *int64     `json:"type_provider_id"`
	CategoryIDs    []int64    `json:"category_ids"`
	DateSince      *time.Time `json:"date_since"`
	DateUntil      *time.Time `json:"date_until"`
}

type closePetitionRequest struct {
	Note string `json:"note"`
}

func (h *PetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req petitionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.petitions.Create(r.Context(), app.CreatePetitionInput{
		CustomerID:     identity.CustomerID,
		Description:    req.Description,
		TypeID:         req.TypeID,
		ProfessionID:   req.ProfessionID,
		TypeProviderID: req.TypeProviderID,
		CategoryIDs:    req.CategoryIDs,
		DateSince:      req.DateSince,
		DateUntil:      req.DateUntil,
		CreatedBy:      identity.UserID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *PetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	petitionID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.petitions.Get(r.Context(), petitionID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

// ListMatched is the provider feed: open petitions matching the caller's
// profile.
func (h *PetitionHandler) ListMatched(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.petitions.ListForProvider(r.Context(), identity.ProviderID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *PetitionHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.petitions.ListByCustomer(r.Context(), identity.CustomerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *PetitionHandler) Close(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	petitionID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req closePetitionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.petitions.Close(r.Context(), petitionID, identity.CustomerID, identity.UserID, req.Note)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *PetitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	petitionID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.petitions.Delete(r.Context(), petitionID, identity.CustomerID, identity.UserID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}

func (h *PetitionHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	petitionID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.petitions.History(r.Context(), petitionID, identity.CustomerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
