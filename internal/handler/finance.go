package handler

import (
	"net/http"
	"strconv"

	"oneflow/internal/middleware"
	"oneflow/internal/model"
	"oneflow/internal/service"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct{ finance *service.FinanceService }

func NewFinanceHandler(finance *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

func queryProjectID(c *gin.Context) int {
	id, _ := strconv.Atoi(c.Query("project_id"))
	return id
}

// GET /api/dashboard
func (h *FinanceHandler) Dashboard(c *gin.Context) {
	resp, err := h.finance.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// GET /api/sales-orders?project_id=
func (h *FinanceHandler) ListSalesOrders(c *gin.Context) {
	out, err := h.finance.ListSalesOrders(c.Request.Context(), queryProjectID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		out = []model.SalesOrder{}
	}
	listOK(c, len(out), out)
}

// POST /api/sales-orders
func (h *FinanceHandler) CreateSalesOrder(c *gin.Context) {
	var o model.SalesOrder
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	o.CreatedBy = middleware.Caller(c).UserID
	if err := h.finance.CreateSalesOrder(c.Request.Context(), &o); err != nil {
		fail(c, err)
		return
	}
	ok(c, o)
}

// DELETE /api/sales-orders/:id
func (h *FinanceHandler) DeleteSalesOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.finance.DeleteSalesOrder(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/purchase-orders?project_id=
func (h *FinanceHandler) ListPurchaseOrders(c *gin.Context) {
	out, err := h.finance.ListPurchaseOrders(c.Request.Context(), queryProjectID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		out = []model.PurchaseOrder{}
	}
	listOK(c, len(out), out)
}

// POST /api/purchase-orders
func (h *FinanceHandler) CreatePurchaseOrder(c *gin.Context) {
	var o model.PurchaseOrder
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	o.CreatedBy = middleware.Caller(c).UserID
	if err := h.finance.CreatePurchaseOrder(c.Request.Context(), &o); err != nil {
		fail(c, err)
		return
	}
	ok(c, o)
}

// DELETE /api/purchase-orders/:id
func (h *FinanceHandler) DeletePurchaseOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.finance.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/expenses?project_id=
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	out, err := h.finance.ListExpenses(c.Request.Context(), middleware.Caller(c), queryProjectID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		out = []model.Expense{}
	}
	listOK(c, len(out), out)
}

// POST /api/expenses
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var e model.Expense
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	e.CreatedBy = middleware.Caller(c).UserID
	if err := h.finance.CreateExpense(c.Request.Context(), &e); err != nil {
		fail(c, err)
		return
	}
	ok(c, e)
}

// DELETE /api/expenses/:id
func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.finance.DeleteExpense(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/invoices?project_id=
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	out, err := h.finance.ListInvoices(c.Request.Context(), queryProjectID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		out = []model.CustomerInvoice{}
	}
	listOK(c, len(out), out)
}

// POST /api/invoices
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	var inv model.CustomerInvoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.finance.CreateInvoice(c.Request.Context(), &inv); err != nil {
		fail(c, err)
		return
	}
	ok(c, inv)
}

// DELETE /api/invoices/:id
func (h *FinanceHandler) DeleteInvoice(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.finance.DeleteInvoice(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/vendor-bills?project_id=
func (h *FinanceHandler) ListVendorBills(c *gin.Context) {
	out, err := h.finance.ListVendorBills(c.Request.Context(), queryProjectID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		out = []model.VendorBill{}
	}
	listOK(c, len(out), out)
}

// POST /api/vendor-bills
func (h *FinanceHandler) CreateVendorBill(c *gin.Context) {
	var b model.VendorBill
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.finance.CreateVendorBill(c.Request.Context(), &b); err != nil {
		fail(c, err)
		return
	}
	ok(c, b)
}

// DELETE /api/vendor-bills/:id
func (h *FinanceHandler) DeleteVendorBill(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.finance.DeleteVendorBill(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
