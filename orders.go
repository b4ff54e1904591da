package main

import (
	"net/http"

	"myshop/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func computeTotal(items []orderItemInput) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

func toOrderItems(items []orderItemInput) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Title:     item.Title,
			Price:     item.Price,
		})
	}
	return out
}

// currentUserID returns the authenticated caller's id set by authRequired.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, _ := c.Get("userID")
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// loadOrder fetches an order with its items, enforcing that non-admin
// callers only see their own orders.
func loadOrder(c *gin.Context) (*models.Order, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errNotFound("Order not found"))
		return nil, false
	}
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.Error(errNotFound("Order not found"))
		} else {
			c.Error(err)
		}
		return nil, false
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errUnauthorized("Invalid access token"))
		return nil, false
	}
	if order.UserID != userID && !hasRole(c, "admin") {
		c.Error(errNotFound("Order not found"))
		return nil, false
	}
	return &order, true
}

// listOrdersHandler lists orders sorted by creation date descending; admins
// see all orders, everyone else only their own.
func listOrdersHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errUnauthorized("Invalid access token"))
		return
	}
	q := db.Preload("Items").Order("created_at desc")
	if !hasRole(c, "admin") {
		q = q.Where("user_id = ?", userID)
	}
	orders := []models.Order{}
	if err := q.Find(&orders).Error; err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func createOrderHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.Error(errUnauthorized("Invalid access token"))
		return
	}
	var req orderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errValidation(err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		c.Error(err)
		return
	}

	order := models.Order{
		UserID: userID,
		Items:  toOrderItems(req.Items),
		Status: req.Status,
		Note:   req.Note,
		Total:  computeTotal(req.Items),
	}
	if err := db.Create(&order).Error; err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func getOrderHandler(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

func updateOrderHandler(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	var req orderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errValidation(err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		c.Error(err)
		return
	}

	// replace items wholesale, then recompute the total
	if err := db.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		c.Error(err)
		return
	}
	order.Items = toOrderItems(req.Items)
	order.Total = computeTotal(req.Items)
	if req.Status != "" {
		order.Status = req.Status
	}
	if req.Note != "" {
		order.Note = req.Note
	}
	if err := db.Save(order).Error; err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func deleteOrderHandler(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	if err := db.Select("Items").Delete(order).Error; err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
