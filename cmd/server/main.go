package main

import (
	"flag"
	"log/slog"
	"os"

	"oneflow/internal/config"
	"oneflow/internal/handler"
	"oneflow/internal/logger"
	"oneflow/internal/mailer"
	"oneflow/internal/middleware"
	"oneflow/internal/model"
	"oneflow/internal/realtime"
	"oneflow/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	middleware.SetSecret(cfg.JWT.Secret)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Project{}, &model.Task{}, &model.Timesheet{},
		&model.SalesOrder{}, &model.PurchaseOrder{}, &model.Expense{},
		&model.CustomerInvoice{}, &model.VendorBill{},
		&model.ProjectTeam{}, &model.ProjectMessage{}, &model.OTP{},
	); err != nil {
		slog.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()

	authSvc := service.NewAuthService(db, mailer.New(cfg.Email))
	userSvc := service.NewUserService(db)
	projectSvc := service.NewProjectService(db)
	taskSvc := service.NewTaskService(db, projectSvc)
	timesheetSvc := service.NewTimesheetService(db)
	financeSvc := service.NewFinanceService(db)
	messageSvc := service.NewMessageService(db, hub)

	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	projectH := handler.NewProjectHandler(projectSvc, financeSvc)
	taskH := handler.NewTaskHandler(taskSvc)
	timesheetH := handler.NewTimesheetHandler(timesheetSvc)
	financeH := handler.NewFinanceHandler(financeSvc)
	messageH := handler.NewMessageHandler(messageSvc, hub)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	auth := r.Group("/api/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/verify-otp", authH.VerifyOTP)
	auth.POST("/resend-otp", authH.ResendOTP)
	auth.POST("/login", authH.Login)

	api := r.Group("/api", middleware.JWTAuth())

	admin := middleware.RequireRoles(model.RoleAdmin)
	managers := middleware.RequireRoles(model.RoleAdmin, model.RoleProjectManager)
	financeRoles := middleware.RequireRoles(model.RoleAdmin, model.RoleProjectManager, model.RoleFinance)

	api.GET("/users", userH.List)
	api.GET("/users/:id", userH.Get)
	api.POST("/users", admin, userH.Create)
	api.PUT("/users/:id", admin, userH.Update)
	api.DELETE("/users/:id", admin, userH.Delete)

	api.GET("/projects", projectH.List)
	api.GET("/projects/:id", projectH.Get)
	api.POST("/projects", managers, projectH.Create)
	api.PUT("/projects/:id", managers, projectH.Update)
	api.DELETE("/projects/:id", managers, projectH.Delete)
	api.GET("/projects/:id/financials", projectH.Financials)
	api.GET("/projects/:id/team", projectH.ListTeam)
	api.POST("/projects/:id/team", managers, projectH.AddMember)
	api.DELETE("/projects/:id/team/:userId", managers, projectH.RemoveMember)
	api.GET("/projects/:id/messages", messageH.List)
	api.POST("/projects/:id/messages", messageH.Create)
	api.DELETE("/messages/:id", messageH.Delete)

	api.GET("/tasks", taskH.List)
	api.GET("/tasks/:id", taskH.Get)
	api.POST("/tasks", managers, taskH.Create)
	api.PUT("/tasks/:id", taskH.Update)
	api.DELETE("/tasks/:id", managers, taskH.Delete)

	api.GET("/timesheets", timesheetH.List)
	api.GET("/timesheets/summary", timesheetH.Summary)
	api.POST("/timesheets", timesheetH.Create)
	api.PUT("/timesheets/:id", timesheetH.Update)
	api.PUT("/timesheets/:id/status", timesheetH.Transition)
	api.DELETE("/timesheets/:id", timesheetH.Delete)

	api.GET("/sales-orders", financeH.ListSalesOrders)
	api.POST("/sales-orders", financeRoles, financeH.CreateSalesOrder)
	api.DELETE("/sales-orders/:id", financeRoles, financeH.DeleteSalesOrder)
	api.GET("/purchase-orders", financeH.ListPurchaseOrders)
	api.POST("/purchase-orders", financeRoles, financeH.CreatePurchaseOrder)
	api.DELETE("/purchase-orders/:id", financeRoles, financeH.DeletePurchaseOrder)
	api.GET("/expenses", financeH.ListExpenses)
	api.POST("/expenses", financeH.CreateExpense)
	api.DELETE("/expenses/:id", financeRoles, financeH.DeleteExpense)
	api.GET("/invoices", financeH.ListInvoices)
	api.POST("/invoices", financeRoles, financeH.CreateInvoice)
	api.DELETE("/invoices/:id", financeRoles, financeH.DeleteInvoice)
	api.GET("/vendor-bills", financeH.ListVendorBills)
	api.POST("/vendor-bills", financeRoles, financeH.CreateVendorBill)
	api.DELETE("/vendor-bills/:id", financeRoles, financeH.DeleteVendorBill)

	api.GET("/dashboard", financeH.Dashboard)

	ws := r.Group("/ws", middleware.JWTAuth())
	ws.GET("/projects/:id/chat", messageH.Chat)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
