package handlers

import (
	"net/http"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/app"
	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/postulation"
	"github.com/nahuelmendez6/int-com-back/internal/http/middleware"
	"github.com/nahuelmendez6/int-com-back/internal/http/response"
)

const (
	createPostulationLimit  = 20
	createPostulationWindow = time.Hour
)

type PostulationHandler struct {
	postulations *app.PostulationService
	limiter      middleware.Limiter
}

func NewPostulationHandler(postulations *app.PostulationService, limiter middleware.Limiter) *PostulationHandler {
	return &PostulationHandler{postulations: postulations, limiter: limiter}
}

type budgetRequest struct {
	CostType        string   `json:"cost_type"`
	Amount          *float64 `json:"amount"`
	UnitPrice       *float64 `json:"unit_price"`
	Quantity        *int64   `json:"quantity"`
	Hours           *float64 `json:"hours"`
	ItemDescription string   `json:"item_description"`
	Notes           string   `json:"notes"`
}

type materialRequest struct {
	MaterialID int64   `json:"material_id"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Notes      string  `json:"notes"`
}

type postulationRequest struct {
	PetitionID int64             `json:"petition_id"`
	Proposal   string            `json:"proposal"`
	Budgets    []budgetRequest   `json:"budgets"`
	Materials  []materialRequest `json:"materials"`
}

type postulationStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *PostulationHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	if h.limiter != nil && !h.limiter.Allow(middleware.UserKey(r), createPostulationLimit, createPostulationWindow) {
		response.Error(w, common.NewError(common.CodeRateLimited, "postulation rate limit exceeded", nil))
		return
	}
	var req postulationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.PetitionID <= 0 {
		response.Error(w, common.NewValidationError("invalid petition", map[string]string{"petition_id": "petition_id is required"}))
		return
	}
	budgets := make([]postulation.Budget, 0, len(req.Budgets))
	for _, b := range req.Budgets {
		budgets = append(budgets, postulation.Budget{
			CostType:        postulation.CostType(b.CostType),
			Amount:          b.Amount,
			UnitPrice:       b.UnitPrice,
			Quantity:        b.Quantity,
			Hours:           b.Hours,
			ItemDescription: b.ItemDescription,
			Notes:           b.Notes,
			CreatedBy:       identity.UserID,
		})
	}
	materials := make([]postulation.Material, 0, len(req.Materials))
	for _, m := range req.Materials {
		materials = append(materials, postulation.Material{
			MaterialID: m.MaterialID,
			Quantity:   m.Quantity,
			UnitPrice:  m.UnitPrice,
			Notes:      m.Notes,
		})
	}
	created, err := h.postulations.Create(r.Context(), app.CreatePostulationInput{
		PetitionID: req.PetitionID,
		ProviderID: identity.ProviderID,
		Proposal:   req.Proposal,
		Budgets:    budgets,
		Materials:  materials,
		CreatedBy:  identity.UserID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *PostulationHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	postulationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.postulations.GetForProvider(r.Context(), postulationID, identity.ProviderID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *PostulationHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.postulations.ListByProvider(r.Context(), identity.ProviderID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// ListForPetition returns the postulations received on one of the caller's
// petitions.
func (h *PostulationHandler) ListForPetition(w http.ResponseWriter, r *http.Request) {
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
	items, err := h.postulations.ListForPetition(r.Context(), petitionID, identity.CustomerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *PostulationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	postulationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req postulationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Status == "" {
		response.Error(w, common.NewError(common.CodeValidation, "status is required", nil))
		return
	}
	updated, err := h.postulations.ChangeState(r.Context(), postulationID, postulation.Status(req.Status), identity.CustomerID, identity.UserID, req.Note)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *PostulationHandler) MarkWinner(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	postulationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.postulations.MarkWinner(r.Context(), postulationID, identity.CustomerID, identity.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *PostulationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	postulationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.postulations.Delete(r.Context(), postulationID, identity.ProviderID, identity.UserID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}

func (h *PostulationHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	postulationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.postulations.History(r.Context(), postulationID, identity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
