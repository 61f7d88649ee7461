package http

import (
	"net/http"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/overview"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/handler/http/response"
)

type OverviewHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type overviewHandlerImpl struct {
	overviewService overview.Service
}

func NewOverviewHandler(overviewService overview.Service) OverviewHandler {
	return &overviewHandlerImpl{
		overviewService: overviewService,
	}
}

// Get implements OverviewHandler.
func (h *overviewHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req overview.OverviewRequest
	if date := r.URL.Query().Get("date"); date != "" {
		req.Date = &date
	}

	result, err := h.overviewService.Compute(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
