package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type productListQuery struct {
	PageNumber int    `form:"pageNumber" binding:"gte=0"`
	PageSize   int    `form:"pageSize" binding:"gte=0"`
	Category   string `form:"category"`
	SearchMode string `form:"searchMode"`
	Keyword    string `form:"searchKeyword"`
}

func (a *api) listProducts(c *gin.Context) {
	var q productListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		a.writeError(c, bindError(err))
		return
	}
	filter := domain.ProductFilter{
		Category:   domain.CategoryAll,
		SearchMode: q.SearchMode,
		Keyword:    q.Keyword,
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
	}
	if q.Category != "" {
		cat, ok := domain.ParseCategory(q.Category)
		if !ok {
			a.writeError(c, domain.NewValidationError("category", "unknown category"))
			return
		}
		filter.Category = cat
	}

	page, err := a.deps.ProductSvc.List(c.Request.Context(), filter)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":          page,
		"category":      filter.Category,
		"categoryLabel": filter.Category.Label(),
	})
}

func (a *api) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		a.writeError(c, domain.ErrProductNotFound)
		return
	}
	p, err := a.deps.ProductSvc.Get(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (a *api) carousel(c *gin.Context) {
	products, err := a.deps.ProductSvc.Carousel(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
