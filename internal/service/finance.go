package service

import (
	"context"
	"fmt"

	"oneflow/internal/model"

	"gorm.io/gorm"
)

type FinanceService struct{ db *gorm.DB }

func NewFinanceService(db *gorm.DB) *FinanceService { return &FinanceService{db: db} }

// Rollup aggregates a project's financial documents. Invoices and vendor
// bills track billing state and do not enter the figures.
func (s *FinanceService) Rollup(ctx context.Context, projectID int) (model.ProjectFinancials, error) {
	var p model.Project
	if err := s.db.WithContext(ctx).First(&p, projectID).Error; err != nil {
		return model.ProjectFinancials{}, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	f := model.ProjectFinancials{ProjectID: p.ID, ProjectName: p.Name}
	var err error
	if f.Revenue, err = s.sumAmount(ctx, &model.SalesOrder{}, projectID); err != nil {
		return f, err
	}
	if f.Cost, err = s.sumAmount(ctx, &model.PurchaseOrder{}, projectID); err != nil {
		return f, err
	}
	if f.Expenses, err = s.sumAmount(ctx, &model.Expense{}, projectID); err != nil {
		return f, err
	}
	f.Profit = f.Revenue - (f.Cost + f.Expenses)
	return f, nil
}

// Dashboard rolls up every project and keeps only the financially active
// ones: revenue or cost above zero. Totals are summed over the kept set.
func (s *FinanceService) Dashboard(ctx context.Context) (model.DashboardResponse, error) {
	var projects []model.Project
	if err := s.db.WithContext(ctx).Order("id").Find(&projects).Error; err != nil {
		return model.DashboardResponse{}, fmt.Errorf("list projects: %w", err)
	}
	resp := model.DashboardResponse{Projects: []model.ProjectFinancials{}}
	for _, p := range projects {
		f, err := s.Rollup(ctx, p.ID)
		if err != nil {
			return resp, err
		}
		if f.Revenue <= 0 && f.Cost <= 0 {
			continue
		}
		resp.Projects = append(resp.Projects, f)
		resp.Totals.Revenue += f.Revenue
		resp.Totals.Cost += f.Cost
		resp.Totals.Expenses += f.Expenses
	}
	resp.Totals.Profit = resp.Totals.Revenue - (resp.Totals.Cost + resp.Totals.Expenses)
	return resp, nil
}

func (s *FinanceService) sumAmount(ctx context.Context, table interface{}, projectID int) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(table).
		Where("project_id = ?", projectID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum amounts: %w", err)
	}
	return total, nil
}

// Document CRUD. All five document types are plain project-scoped records;
// only expenses carry a visibility scope.

func (s *FinanceService) ListSalesOrders(ctx context.Context, projectID int) ([]model.SalesOrder, error) {
	var out []model.SalesOrder
	if err := s.scoped(ctx, projectID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	return out, nil
}

func (s *FinanceService) CreateSalesOrder(ctx context.Context, o *model.SalesOrder) error {
	if err := s.checkDoc(ctx, o.ProjectID, o.Amount); err != nil {
		return err
	}
	return wrap("create sales order", s.db.WithContext(ctx).Create(o).Error)
}

func (s *FinanceService) DeleteSalesOrder(ctx context.Context, id int) error {
	return s.deleteDoc(ctx, &model.SalesOrder{}, id)
}

func (s *FinanceService) ListPurchaseOrders(ctx context.Context, projectID int) ([]model.PurchaseOrder, error) {
	var out []model.PurchaseOrder
	if err := s.scoped(ctx, projectID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return out, nil
}

func (s *FinanceService) CreatePurchaseOrder(ctx context.Context, o *model.PurchaseOrder) error {
	if err := s.checkDoc(ctx, o.ProjectID, o.Amount); err != nil {
		return err
	}
	return wrap("create purchase order", s.db.WithContext(ctx).Create(o).Error)
}

func (s *FinanceService) DeletePurchaseOrder(ctx context.Context, id int) error {
	return s.deleteDoc(ctx, &model.PurchaseOrder{}, id)
}

func (s *FinanceService) ListExpenses(ctx context.Context, caller model.Identity, projectID int) ([]model.Expense, error) {
	q := s.db.WithContext(ctx).Scopes(ExpenseScope(caller))
	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}
	var out []model.Expense
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

func (s *FinanceService) CreateExpense(ctx context.Context, e *model.Expense) error {
	if err := s.checkDoc(ctx, e.ProjectID, e.Amount); err != nil {
		return err
	}
	return wrap("create expense", s.db.WithContext(ctx).Create(e).Error)
}

func (s *FinanceService) DeleteExpense(ctx context.Context, id int) error {
	return s.deleteDoc(ctx, &model.Expense{}, id)
}

func (s *FinanceService) ListInvoices(ctx context.Context, projectID int) ([]model.CustomerInvoice, error) {
	var out []model.CustomerInvoice
	if err := s.scoped(ctx, projectID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return out, nil
}

func (s *FinanceService) CreateInvoice(ctx context.Context, inv *model.CustomerInvoice) error {
	if err := s.checkDoc(ctx, inv.ProjectID, inv.Amount); err != nil {
		return err
	}
	return wrap("create invoice", s.db.WithContext(ctx).Create(inv).Error)
}

func (s *FinanceService) DeleteInvoice(ctx context.Context, id int) error {
	return s.deleteDoc(ctx, &model.CustomerInvoice{}, id)
}

func (s *FinanceService) ListVendorBills(ctx context.Context, projectID int) ([]model.VendorBill, error) {
	var out []model.VendorBill
	if err := s.scoped(ctx, projectID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list vendor bills: %w", err)
	}
	return out, nil
}

func (s *FinanceService) CreateVendorBill(ctx context.Context, b *model.VendorBill) error {
	if err := s.checkDoc(ctx, b.ProjectID, b.Amount); err != nil {
		return err
	}
	return wrap("create vendor bill", s.db.WithContext(ctx).Create(b).Error)
}

func (s *FinanceService) DeleteVendorBill(ctx context.Context, id int) error {
	return s.deleteDoc(ctx, &model.VendorBill{}, id)
}

func (s *FinanceService) scoped(ctx context.Context, projectID int) *gorm.DB {
	q := s.db.WithContext(ctx)
	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}
	return q
}

func (s *FinanceService) checkDoc(ctx context.Context, projectID int, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalid)
	}
	var p model.Project
	if err := s.db.WithContext(ctx).Select("id").First(&p, projectID).Error; err != nil {
		return fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	return nil
}

func (s *FinanceService) deleteDoc(ctx context.Context, doc interface{}, id int) error {
	res := s.db.WithContext(ctx).Delete(doc, id)
	if res.Error != nil {
		return fmt.Errorf("delete document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: document %d", ErrNotFound, id)
	}
	return nil
}

func wrap(op string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
