package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type cartInsertForm struct {
	ProductID int64 `form:"product_id" binding:"required,gt=0"`
	Quantity  *int  `form:"quantity"`
}

func (a *api) addCartItem(c *gin.Context) {
	var form cartInsertForm
	if err := c.ShouldBind(&form); err != nil {
		a.writeError(c, bindError(err))
		return
	}
	qty := 1
	if form.Quantity != nil {
		qty = *form.Quantity
	}

	m := currentMember(c)
	line, err := a.deps.CartSvc.AddItem(c.Request.Context(), m.ID, form.ProductID, qty)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "장바구니에 상품이 추가되었습니다.",
		"lineItem": line,
	})
}

func (a *api) listCart(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("memberId"), 10, 64)
	if err != nil {
		a.writeError(c, domain.NewValidationError("memberId", "invalid member id"))
		return
	}
	m := currentMember(c)
	if m.ID != memberID && !m.IsAdmin() {
		a.writeError(c, domain.ErrForbidden)
		return
	}
	summary, err := a.deps.CartSvc.ListItems(c.Request.Context(), memberID)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
