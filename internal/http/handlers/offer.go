package handlers

import (
	"net/http"

	"github.com/nahuelmendez6/int-com-back/internal/app"
	"github.com/nahuelmendez6/int-com-back/internal/http/middleware"
	"github.com/nahuelmendez6/int-com-back/internal/http/response"
)

type OfferHandler struct {
	offers *app.OfferService
}

func NewOfferHandler(offers *app.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// ListForCustomer returns the active offers matching the caller's interests
// and city.
func (h *OfferHandler) ListForCustomer(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.offers.OffersForCustomer(r.Context(), identity.CustomerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
