package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/audit"
	auditdomain "github.com/fieldline/fieldline/internal/audit/domain"
	"github.com/fieldline/fieldline/internal/auth"
	authdomain "github.com/fieldline/fieldline/internal/auth/domain"
	"github.com/fieldline/fieldline/internal/authorization"
	"github.com/fieldline/fieldline/internal/brand"
	branddomain "github.com/fieldline/fieldline/internal/brand/domain"
	"github.com/fieldline/fieldline/internal/company"
	companydomain "github.com/fieldline/fieldline/internal/company/domain"
	"github.com/fieldline/fieldline/internal/config"
	"github.com/fieldline/fieldline/internal/cooler"
	coolerdomain "github.com/fieldline/fieldline/internal/cooler/domain"
	"github.com/fieldline/fieldline/internal/customer"
	customerdomain "github.com/fieldline/fieldline/internal/customer/domain"
	"github.com/fieldline/fieldline/internal/observability"
	obslogger "github.com/fieldline/fieldline/internal/observability/logger"
	obsmetrics "github.com/fieldline/fieldline/internal/observability/metrics"
	obstracing "github.com/fieldline/fieldline/internal/observability/tracing"
	"github.com/fieldline/fieldline/internal/order"
	orderdomain "github.com/fieldline/fieldline/internal/order/domain"
	"github.com/fieldline/fieldline/internal/payment"
	paymentdomain "github.com/fieldline/fieldline/internal/payment/domain"
	"github.com/fieldline/fieldline/internal/product"
	productdomain "github.com/fieldline/fieldline/internal/product/domain"
	"github.com/fieldline/fieldline/internal/providers/pdf"
	"github.com/fieldline/fieldline/internal/ratelimit"
	"github.com/fieldline/fieldline/internal/reference"
	referencedomain "github.com/fieldline/fieldline/internal/reference/domain"
	"github.com/fieldline/fieldline/internal/report"
	"github.com/fieldline/fieldline/internal/storage"
	"github.com/fieldline/fieldline/internal/survey"
	surveydomain "github.com/fieldline/fieldline/internal/survey/domain"
	"github.com/fieldline/fieldline/internal/taxrate"
	taxratedomain "github.com/fieldline/fieldline/internal/taxrate/domain"
	"github.com/fieldline/fieldline/internal/vanstock"
	vanstockdomain "github.com/fieldline/fieldline/internal/vanstock/domain"
	"github.com/fieldline/fieldline/internal/visit"
	visitdomain "github.com/fieldline/fieldline/internal/visit/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	auth.Module,
	reference.Module,
	company.Module,
	brand.Module,
	taxrate.Module,
	customer.Module,
	product.Module,
	cooler.Module,
	storage.Module,
	order.Module,
	payment.Module,
	survey.Module,
	visit.Module,
	vanstock.Module,
	ratelimit.Module,
	report.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(RequestContext())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	authsvc      authdomain.Service
	authzSvc     authorization.Service
	auditSvc     auditdomain.Service
	referenceSvc referencedomain.Service
	companySvc   companydomain.Service
	brandSvc     branddomain.Service
	taxRateSvc   taxratedomain.Service
	customerSvc  customerdomain.Service
	productSvc   productdomain.Service
	coolerSvc    coolerdomain.Service
	orderSvc     orderdomain.Service
	paymentSvc   paymentdomain.Service
	surveySvc    surveydomain.Service
	visitSvc     visitdomain.Service
	vanStockSvc  vanstockdomain.Service
	reportSvc    *report.Service
	receipts     *pdf.Provider
	limiter      *ratelimit.Limiter
	storage      storage.Client
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	Authsvc      authdomain.Service
	AuthzSvc     authorization.Service
	AuditSvc     auditdomain.Service
	ReferenceSvc referencedomain.Service
	CompanySvc   companydomain.Service
	BrandSvc     branddomain.Service
	TaxRateSvc   taxratedomain.Service
	CustomerSvc  customerdomain.Service
	ProductSvc   productdomain.Service
	CoolerSvc    coolerdomain.Service
	OrderSvc     orderdomain.Service
	PaymentSvc   paymentdomain.Service
	SurveySvc    surveydomain.Service
	VisitSvc     visitdomain.Service
	VanStockSvc  vanstockdomain.Service
	ReportSvc    *report.Service
	Receipts     *pdf.Provider
	Limiter      *ratelimit.Limiter
	Storage      storage.Client `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		authsvc:      p.Authsvc,
		authzSvc:     p.AuthzSvc,
		auditSvc:     p.AuditSvc,
		referenceSvc: p.ReferenceSvc,
		companySvc:   p.CompanySvc,
		brandSvc:     p.BrandSvc,
		taxRateSvc:   p.TaxRateSvc,
		customerSvc:  p.CustomerSvc,
		productSvc:   p.ProductSvc,
		coolerSvc:    p.CoolerSvc,
		orderSvc:     p.OrderSvc,
		paymentSvc:   p.PaymentSvc,
		surveySvc:    p.SurveySvc,
		visitSvc:     p.VisitSvc,
		vanStockSvc:  p.VanStockSvc,
		reportSvc:    p.ReportSvc,
		receipts:     p.Receipts,
		limiter:      p.Limiter,
		storage:      p.Storage,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.AuthRequired(), s.Logout)
	authGroup.POST("/change-password", s.AuthRequired(), s.ChangePassword)
	authGroup.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1")
	api.Use(s.AuthRequired())

	// -------- Reference data --------
	api.GET("/reference-data", s.Authorize(authorization.ObjectReference, authorization.ActionView), s.ListReferenceData)
	api.POST("/reference-data/:kind", s.Authorize(authorization.ObjectReference, authorization.ActionCreate), s.CreateReferenceItem)

	// -------- Companies --------
	api.GET("/companies", s.Authorize(authorization.ObjectCompany, authorization.ActionView), s.ListCompanies)
	api.POST("/companies", s.Authorize(authorization.ObjectCompany, authorization.ActionCreate), s.CreateCompany)
	api.GET("/companies/:id", s.Authorize(authorization.ObjectCompany, authorization.ActionView), s.GetCompanyByID)
	api.PATCH("/companies/:id", s.Authorize(authorization.ObjectCompany, authorization.ActionUpdate), s.UpdateCompany)

	// -------- Brands --------
	api.GET("/brands", s.Authorize(authorization.ObjectBrand, authorization.ActionView), s.ListBrands)
	api.POST("/brands", s.Authorize(authorization.ObjectBrand, authorization.ActionCreate), s.CreateBrand)
	api.GET("/brands/:id", s.Authorize(authorization.ObjectBrand, authorization.ActionView), s.GetBrandByID)
	api.PATCH("/brands/:id", s.Authorize(authorization.ObjectBrand, authorization.ActionUpdate), s.UpdateBrand)
	api.DELETE("/brands/:id", s.Authorize(authorization.ObjectBrand, authorization.ActionDelete), s.DeleteBrand)

	// -------- Tax rates --------
	api.GET("/tax-rates", s.Authorize(authorization.ObjectTaxRate, authorization.ActionView), s.ListTaxRates)
	api.POST("/tax-rates", s.Authorize(authorization.ObjectTaxRate, authorization.ActionCreate), s.CreateTaxRate)
	api.GET("/tax-rates/:id", s.Authorize(authorization.ObjectTaxRate, authorization.ActionView), s.GetTaxRateByID)
	api.PATCH("/tax-rates/:id", s.Authorize(authorization.ObjectTaxRate, authorization.ActionUpdate), s.UpdateTaxRate)
	api.DELETE("/tax-rates/:id", s.Authorize(authorization.ObjectTaxRate, authorization.ActionDelete), s.DeleteTaxRate)

	// -------- Customers --------
	api.GET("/customers", s.Authorize(authorization.ObjectCustomer, authorization.ActionView), s.ListCustomers)
	api.POST("/customers", s.Authorize(authorization.ObjectCustomer, authorization.ActionCreate), s.CreateCustomer)
	api.GET("/customers/:id", s.Authorize(authorization.ObjectCustomer, authorization.ActionView), s.GetCustomerByID)
	api.PATCH("/customers/:id", s.Authorize(authorization.ObjectCustomer, authorization.ActionUpdate), s.UpdateCustomer)
	api.DELETE("/customers/:id", s.Authorize(authorization.ObjectCustomer, authorization.ActionDelete), s.DeleteCustomer)

	// -------- Products --------
	api.GET("/products", s.Authorize(authorization.ObjectProduct, authorization.ActionView), s.ListProducts)
	api.POST("/products", s.Authorize(authorization.ObjectProduct, authorization.ActionCreate), s.CreateProduct)
	api.GET("/products/:id", s.Authorize(authorization.ObjectProduct, authorization.ActionView), s.GetProductByID)
	api.PATCH("/products/:id", s.Authorize(authorization.ObjectProduct, authorization.ActionUpdate), s.UpdateProduct)
	api.DELETE("/products/:id", s.Authorize(authorization.ObjectProduct, authorization.ActionDelete), s.DeleteProduct)

	// -------- Coolers --------
	api.GET("/coolers", s.Authorize(authorization.ObjectCooler, authorization.ActionView), s.ListCoolers)
	api.POST("/coolers", s.Authorize(authorization.ObjectCooler, authorization.ActionCreate), s.CreateCooler)
	api.GET("/coolers/:id", s.Authorize(authorization.ObjectCooler, authorization.ActionView), s.GetCoolerByID)
	api.PATCH("/coolers/:id", s.Authorize(authorization.ObjectCooler, authorization.ActionUpdate), s.UpdateCooler)
	api.DELETE("/coolers/:id", s.Authorize(authorization.ObjectCooler, authorization.ActionDelete), s.DeleteCooler)

	// -------- Visits --------
	api.POST("/visits/bulk",
		s.Authorize(authorization.ObjectVisit, authorization.ActionVisitSync),
		s.limiter.Middleware("visit_bulk", 30, time.Minute),
		s.BulkUpsertVisits)
	api.GET("/visits", s.Authorize(authorization.ObjectVisit, authorization.ActionView), s.ListVisits)
	api.GET("/visits/:id", s.Authorize(authorization.ObjectVisit, authorization.ActionView), s.GetVisitByID)
	api.DELETE("/visits/:id", s.Authorize(authorization.ObjectVisit, authorization.ActionDelete), s.DeleteVisit)

	// -------- Orders --------
	api.GET("/orders", s.Authorize(authorization.ObjectOrder, authorization.ActionView), s.ListOrders)
	api.GET("/orders/:id", s.Authorize(authorization.ObjectOrder, authorization.ActionView), s.GetOrderByID)
	api.POST("/orders/:id/approve", s.Authorize(authorization.ObjectOrder, authorization.ActionOrderApprove), s.ApproveOrder)
	api.GET("/orders/:id/receipt", s.Authorize(authorization.ObjectOrder, authorization.ActionView), s.OrderReceipt)

	// -------- Payments --------
	api.GET("/payments", s.Authorize(authorization.ObjectPayment, authorization.ActionView), s.ListPayments)
	api.POST("/payments", s.Authorize(authorization.ObjectPayment, authorization.ActionCreate), s.CreatePayment)
	api.GET("/payments/:id", s.Authorize(authorization.ObjectPayment, authorization.ActionView), s.GetPaymentByID)

	// -------- Van stock --------
	api.POST("/van-stock/documents", s.Authorize(authorization.ObjectVanStock, authorization.ActionStockPost), s.PostStockDocument)
	api.GET("/van-stock/documents", s.Authorize(authorization.ObjectVanStock, authorization.ActionView), s.ListStockDocuments)
	api.GET("/van-stock/documents/:id", s.Authorize(authorization.ObjectVanStock, authorization.ActionView), s.GetStockDocumentByID)

	// -------- Reports --------
	api.GET("/reports/visits", s.Authorize(authorization.ObjectReport, authorization.ActionReportExport), s.ExportVisitsReport)
	api.GET("/reports/orders", s.Authorize(authorization.ObjectReport, authorization.ActionReportExport), s.ExportOrdersReport)

	// -------- Audit logs --------
	api.GET("/audit-logs", s.Authorize(authorization.ObjectAuditLog, authorization.ActionView), s.ListAuditLogs)

	// -------- Users --------
	api.GET("/users/me", s.Me)
	api.POST("/users", s.Authorize(authorization.ObjectUser, authorization.ActionUserManage), s.CreateUser)
}
