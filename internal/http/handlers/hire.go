package handlers

import (
	"net/http"

	"github.com/nahuelmendez6/int-com-back/internal/app"
	"github.com/nahuelmendez6/int-com-back/internal/domain/user"
	"github.com/nahuelmendez6/int-com-back/internal/http/middleware"
	"github.com/nahuelmendez6/int-com-back/internal/http/response"
)

type HireHandler struct {
	hires *app.HireService
}

func NewHireHandler(hires *app.HireService) *HireHandler {
	return &HireHandler{hires: hires}
}

// List returns the caller's hires: as a customer the providers they hired,
// as a provider the jobs they were hired for.
func (h *HireHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var (
		items []app.Hire
		err   error
	)
	switch identity.Role {
	case user.RoleCustomer:
		items, err = h.hires.ListForCustomer(r.Context(), identity.CustomerID)
	case user.RoleProvider:
		items, err = h.hires.ListForProvider(r.Context(), identity.ProviderID)
	default:
		response.Error(w, errUnauthorized())
		return
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
