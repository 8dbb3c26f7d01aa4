package http

import (
	"net/http"

	"solecare-backend/internal/events"
	"solecare-backend/internal/handlers"
	"solecare-backend/internal/health"
	"solecare-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	customerHandler *handlers.CustomerHandler,
	branchHandler *handlers.BranchHandler,
	transactionHandler *handlers.TransactionHandler,
	pipelineHandler *handlers.PipelineHandler,
	paymentHandler *handlers.PaymentHandler,
	appointmentHandler *handlers.AppointmentHandler,
	reportHandler *handlers.ReportHandler,
	settingHandler *handlers.SystemSettingHandler,
	healthChecker *health.Checker,
	hub *events.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Service catalog
	catalogAPI := r.PathPrefix("/api/services").Subrouter()
	catalogAPI.Use(authMiddleware.Authenticate)
	catalogAPI.HandleFunc("", catalogHandler.List).Methods("GET")
	catalogAPI.HandleFunc("", authMiddleware.RequireRole("admin")(http.HandlerFunc(catalogHandler.Create)).ServeHTTP).Methods("POST")

	// Protected API routes - Customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.List).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.Create).Methods("POST")
	customersAPI.HandleFunc("/{id}", customerHandler.Get).Methods("GET")

	// Protected API routes - Branches
	branchesAPI := r.PathPrefix("/api/branches").Subrouter()
	branchesAPI.Use(authMiddleware.Authenticate)
	branchesAPI.HandleFunc("", branchHandler.List).Methods("GET")
	branchesAPI.HandleFunc("", authMiddleware.RequireRole("admin")(http.HandlerFunc(branchHandler.Create)).ServeHTTP).Methods("POST")

	// Protected API routes - Transactions (intake and detail)
	transactionsAPI := r.PathPrefix("/api/transactions").Subrouter()
	transactionsAPI.Use(authMiddleware.Authenticate)
	transactionsAPI.HandleFunc("", transactionHandler.List).Methods("GET")
	transactionsAPI.HandleFunc("", authMiddleware.RequireCashierAccess(http.HandlerFunc(transactionHandler.Create)).ServeHTTP).Methods("POST")
	transactionsAPI.HandleFunc("/{id}", transactionHandler.GetDetail).Methods("GET")
	transactionsAPI.HandleFunc("/{id}/payments", paymentHandler.Ledger).Methods("GET")
	transactionsAPI.HandleFunc("/{id}/storage-fees", pipelineHandler.FeeDiagnostics).Methods("GET")
	transactionsAPI.HandleFunc("/{id}/storage-fees", authMiddleware.RequireRole("admin")(http.HandlerFunc(pipelineHandler.ClearFees)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Pipeline (technicians move items, cashiers too)
	lineItemsAPI := r.PathPrefix("/api/line-items").Subrouter()
	lineItemsAPI.Use(authMiddleware.Authenticate)
	lineItemsAPI.HandleFunc("/queue/{status}", pipelineHandler.Queue).Methods("GET")
	lineItemsAPI.HandleFunc("/{id}/transition", pipelineHandler.Transition).Methods("POST")
	lineItemsAPI.HandleFunc("/{id}/history", pipelineHandler.History).Methods("GET")
	lineItemsAPI.HandleFunc("/accrue-fees", authMiddleware.RequireRole("admin")(http.HandlerFunc(pipelineHandler.AccrueFees)).ServeHTTP).Methods("POST")

	// Protected API routes - Payments (money handling is cashier/admin only)
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", authMiddleware.RequireCashierAccess(http.HandlerFunc(paymentHandler.Process)).ServeHTTP).Methods("POST")
	paymentsAPI.HandleFunc("/receipt/{receiptNumber}", authMiddleware.RequireCashierAccess(http.HandlerFunc(paymentHandler.Receipt)).ServeHTTP).Methods("GET")

	// Protected API routes - Appointments
	appointmentsAPI := r.PathPrefix("/api/appointments").Subrouter()
	appointmentsAPI.Use(authMiddleware.Authenticate)
	appointmentsAPI.HandleFunc("", appointmentHandler.ListDay).Methods("GET")
	appointmentsAPI.HandleFunc("", appointmentHandler.Create).Methods("POST")
	appointmentsAPI.HandleFunc("/{id}/status", appointmentHandler.UpdateStatus).Methods("PATCH")

	// Protected API routes - Reports and exports (admin only)
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.RequireRole("admin"))
	reportsAPI.HandleFunc("/revenue/daily", reportHandler.DailyRevenue).Methods("GET")
	reportsAPI.HandleFunc("/revenue/monthly", reportHandler.MonthlyRevenue).Methods("GET")
	reportsAPI.HandleFunc("/revenue/forecast", reportHandler.Forecast).Methods("GET")
	reportsAPI.HandleFunc("/export/excel", reportHandler.ExportExcel).Methods("GET")
	reportsAPI.HandleFunc("/export/csv", reportHandler.ExportCSV).Methods("GET")
	reportsAPI.HandleFunc("/export/pdf-zip", reportHandler.ExportPDFZip).Methods("GET")

	// Protected API routes - System Settings
	settingsAPI := r.PathPrefix("/api/settings").Subrouter()
	settingsAPI.Use(authMiddleware.Authenticate)
	settingsAPI.HandleFunc("", settingHandler.List).Methods("GET")
	settingsAPI.HandleFunc("/{key}", settingHandler.Get).Methods("GET")
	settingsAPI.HandleFunc("/{key}", authMiddleware.RequireRole("admin")(http.HandlerFunc(settingHandler.Update)).ServeHTTP).Methods("PUT")

	// Live change feed for operational queue views
	r.HandleFunc("/ws", hub.HandleWS)

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthChecker.Basic).Methods("GET")
	r.HandleFunc("/health/ready", healthChecker.Ready).Methods("GET")
	r.HandleFunc("/health/detailed", healthChecker.Detailed).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
