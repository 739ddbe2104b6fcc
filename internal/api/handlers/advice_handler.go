package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/gin-gonic/gin"
)

type Advisor interface {
	Advise(ctx context.Context, sku string) (*domain.AdviceResponse, error)
}

type AdviceHandler struct {
	advisor Advisor
}

func NewAdviceHandler(advisor Advisor) *AdviceHandler {
	return &AdviceHandler{advisor: advisor}
}

// Advise handles POST /advise/:sku
func (h *AdviceHandler) Advise(c *gin.Context) {
	resp, err := h.advisor.Advise(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err, "failed to build advice")
		return
	}
	c.JSON(http.StatusOK, resp)
}
