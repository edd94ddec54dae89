package controllers

import (
	"net/http"

	"github.com/yashrajoria/storefront-service/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	catalogService services.CatalogService
}

func NewProductController(catalogService services.CatalogService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
	}
}

// ListProducts returns the full catalog.
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	products, svcErr := pc.catalogService.ListProducts(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, products)
}

// SeedProducts replaces the catalog with sample data. Dev only.
func (pc *ProductController) SeedProducts(ctx *gin.Context) {
	count, svcErr := pc.catalogService.Seed(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "count": count})
}
