package main

import (
	"fmt"
	"time"

	"myshop/models"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
)

// orderPDFHandler streams a PDF rendition of a single order.
func orderPDFHandler(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	customer := "guest"
	var user models.User
	if err := db.First(&user, "id = ?", order.UserID).Error; err == nil {
		customer = user.FirstName + " " + user.LastName
	}

	doc := buildOrderPDF(order, customer)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=Order_%s.pdf", order.ID))
	if err := doc.Output(c.Writer); err != nil {
		c.Error(err)
	}
}

func buildOrderPDF(order *models.Order, customer string) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 25)
	doc.Cell(0, 12, "Order")
	doc.Ln(14)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, fmt.Sprintf("Order ID: %s", order.ID))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006")))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 6, "Customer:")
	doc.Ln(6)
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(0, 6, customer)
	doc.Ln(8)
	if order.Note != "" {
		doc.SetFont("Helvetica", "", 10)
		doc.Cell(0, 6, fmt.Sprintf("Note: %s", order.Note))
		doc.Ln(8)
	}

	// items table
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(30, 64, 175)
	doc.SetTextColor(255, 255, 255)
	doc.CellFormat(12, 8, "Pos", "1", 0, "L", true, 0, "")
	doc.CellFormat(98, 8, "Product", "1", 0, "L", true, 0, "")
	doc.CellFormat(20, 8, "Qty", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 8, "Price", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 8, "Total", "1", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	for i, item := range order.Items {
		doc.CellFormat(12, 7, fmt.Sprintf("%d", i+1), "1", 0, "L", false, 0, "")
		doc.CellFormat(98, 7, item.Title, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)), "1", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(160, 8, "Order total", "1", 0, "R", false, 0, "")
	doc.CellFormat(30, 8, fmt.Sprintf("%.2f", order.Total), "1", 1, "R", false, 0, "")

	return doc
}
