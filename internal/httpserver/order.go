package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
)

func (a *api) placeOrder(c *gin.Context) {
	items, err := ordersvc.ParseOrderItems(c.PostFormArray("order_items"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	m := currentMember(c)
	order, err := a.deps.OrderSvc.PlaceOrder(c.Request.Context(), m.ID, items)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "주문이 완료되었습니다.", "order": order})
}

func (a *api) checkoutCart(c *gin.Context) {
	m := currentMember(c)
	order, err := a.deps.OrderSvc.CheckoutCart(c.Request.Context(), m.ID)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "주문이 완료되었습니다.", "order": order})
}

func (a *api) listOrders(c *gin.Context) {
	m := currentMember(c)
	orders, err := a.deps.OrderSvc.ListOrders(c.Request.Context(), m.ID, m.Profile.Role)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
