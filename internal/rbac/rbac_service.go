package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`

type Service interface {
	Can(role, object, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

// NewService builds an in-memory enforcer with the fixed shop role model:
// admin does everything, manager runs day-to-day operations, staff records
// attendance and reads.
func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{
		{RoleAdmin, "*", "*"},

		{RoleManager, "employee", "read"},
		{RoleManager, "employee", "create"},
		{RoleManager, "employee", "update"},
		{RoleManager, "attendance", "read"},
		{RoleManager, "attendance", "create"},
		{RoleManager, "attendance", "delete"},
		{RoleManager, "discipline", "read"},
		{RoleManager, "discipline", "create"},
		{RoleManager, "discipline", "delete"},
		{RoleManager, "payroll", "read"},
		{RoleManager, "report", "read"},
		{RoleManager, "report", "create"},
		{RoleManager, "report", "update"},
		{RoleManager, "inventory", "read"},
		{RoleManager, "inventory", "create"},
		{RoleManager, "inventory", "update"},
		{RoleManager, "operation", "read"},
		{RoleManager, "operation", "create"},
		{RoleManager, "operation", "delete"},
		{RoleManager, "export", "read"},

		{RoleStaff, "attendance", "read"},
		{RoleStaff, "attendance", "create"},
		{RoleStaff, "report", "read"},
		{RoleStaff, "inventory", "read"},
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Can(role, object, action string) (bool, error) {
	return s.enforcer.Enforce(role, object, action)
}
