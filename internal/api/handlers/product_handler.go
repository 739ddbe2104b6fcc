package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/gin-gonic/gin"
)

type ProductLister interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
}

type SummaryLister interface {
	ListSummaries(ctx context.Context) ([]domain.ProductSummary, error)
}

type ProductHandler struct {
	products  ProductLister
	summaries SummaryLister
}

func NewProductHandler(products ProductLister, summaries SummaryLister) *ProductHandler {
	return &ProductHandler{products: products, summaries: summaries}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Summaries(c *gin.Context) {
	summaries, err := h.summaries.ListSummaries(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch product summaries")
		return
	}
	c.JSON(http.StatusOK, summaries)
}
