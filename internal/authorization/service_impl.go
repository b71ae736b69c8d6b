package authorization

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/fieldline/fieldline/internal/audit/domain"
	authdomain "github.com/fieldline/fieldline/internal/auth/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectBrand     = "brand"
	ObjectCompany   = "company"
	ObjectCustomer  = "customer"
	ObjectProduct   = "product"
	ObjectTaxRate   = "tax_rate"
	ObjectCooler    = "cooler"
	ObjectVisit     = "visit"
	ObjectOrder     = "order"
	ObjectPayment   = "payment"
	ObjectVanStock  = "van_stock"
	ObjectReference = "reference"
	ObjectReport    = "report"
	ObjectAuditLog  = "audit_log"
	ObjectUser      = "user"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionVisitSync    = "visit.sync"
	ActionOrderApprove = "order.approve"
	ActionStockPost    = "van_stock.post"
	ActionReportExport = "report.export"
	ActionUserManage   = "user.manage"
)

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

type Service interface {
	Authorize(ctx context.Context, actor *authdomain.User, object string, action string) error
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor *authdomain.User, object string, action string) error {
	if actor == nil || actor.ID == 0 {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := fmt.Sprintf("user:%s", actor.ID)
	roleName := fmt.Sprintf("role:%s", strings.ToLower(strings.TrimSpace(actor.Role)))
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, subject, object, action)
		return ErrForbidden
	}

	if shouldAuditGrant(action) {
		s.auditGranted(ctx, subject, object, action)
	}
	return nil
}

// ensureGrouping keeps exactly one role link per subject so a role change
// on the user row takes effect on the next request.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, subject, object, action string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.AuditLog(ctx, "authorization.denied", "authorization", object, map[string]any{
		"object":  object,
		"action":  action,
		"subject": subject,
	})
}

func (s *ServiceImpl) auditGranted(ctx context.Context, subject, object, action string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.AuditLog(ctx, "authorization.granted", "authorization", object, map[string]any{
		"object":  object,
		"action":  action,
		"subject": subject,
	})
}

func shouldAuditGrant(action string) bool {
	switch action {
	case ActionOrderApprove, ActionStockPost, ActionUserManage:
		return true
	default:
		return false
	}
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	masterData := []string{
		ObjectBrand, ObjectCompany, ObjectCustomer, ObjectProduct,
		ObjectTaxRate, ObjectCooler, ObjectReference,
	}
	transactional := []string{
		ObjectVisit, ObjectOrder, ObjectPayment, ObjectVanStock,
	}

	policies := [][]string{
		{"role:admin", ObjectAuditLog, ActionView},
		{"role:admin", ObjectReport, ActionReportExport},
		{"role:admin", ObjectUser, ActionUserManage},
		{"role:admin", ObjectOrder, ActionOrderApprove},

		{"role:supervisor", ObjectAuditLog, ActionView},
		{"role:supervisor", ObjectReport, ActionReportExport},
		{"role:supervisor", ObjectOrder, ActionOrderApprove},

		{"role:salesperson", ObjectVisit, ActionVisitSync},
		{"role:salesperson", ObjectVanStock, ActionStockPost},
	}

	for _, object := range masterData {
		policies = append(policies,
			[]string{"role:admin", object, "*"},
			[]string{"role:supervisor", object, ActionView},
			[]string{"role:salesperson", object, ActionView},
		)
	}
	for _, object := range transactional {
		policies = append(policies,
			[]string{"role:admin", object, "*"},
			[]string{"role:supervisor", object, ActionView},
			[]string{"role:salesperson", object, ActionView},
			[]string{"role:salesperson", object, ActionCreate},
			[]string{"role:salesperson", object, ActionUpdate},
		)
	}
	policies = append(policies,
		[]string{"role:salesperson", ObjectVisit, ActionDelete},
	)

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}

var Module = fx.Module("authorization.service",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)
