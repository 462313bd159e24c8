// Package authz decides which role may perform which action on which resource.
// Row-level rules (a patient only sees their own chart) live in the services.
package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
)

type Resource string

const (
	ResourcePatients       Resource = "patients"
	ResourceAppointments   Resource = "appointments"
	ResourceMedicalRecords Resource = "medical_records"
	ResourceStaff          Resource = "staff"
	ResourceDepartments    Resource = "departments"
	ResourceShifts         Resource = "shifts"
	ResourceTasks          Resource = "tasks"
	ResourceNotifications  Resource = "notifications"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
	// ActionAssign covers scheduling other people's work: manual and AI shift assignment.
	ActionAssign Action = "assign"
	ActionSend   Action = "send"
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
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// clinicalStaff is inherited by doctors and nurses.
const clinicalStaff = "group:clinical"

func defaultPolicies() [][]string {
	return [][]string{
		{Subject(domain.RoleAdmin), "*", "*"},

		{clinicalStaff, string(ResourcePatients), string(ActionRead)},
		{clinicalStaff, string(ResourcePatients), string(ActionWrite)},
		{clinicalStaff, string(ResourceAppointments), string(ActionRead)},
		{clinicalStaff, string(ResourceAppointments), string(ActionWrite)},
		{clinicalStaff, string(ResourceMedicalRecords), string(ActionRead)},
		{clinicalStaff, string(ResourceMedicalRecords), string(ActionWrite)},
		{clinicalStaff, string(ResourceStaff), string(ActionRead)},
		{clinicalStaff, string(ResourceDepartments), string(ActionRead)},
		{clinicalStaff, string(ResourceShifts), string(ActionRead)},
		{clinicalStaff, string(ResourceTasks), string(ActionRead)},
		{clinicalStaff, string(ResourceTasks), string(ActionWrite)},
		{clinicalStaff, string(ResourceNotifications), string(ActionRead)},
		{clinicalStaff, string(ResourceNotifications), string(ActionWrite)},

		{Subject(domain.RoleDoctor), string(ResourceTasks), string(ActionDelete)},

		{Subject(domain.RoleReceptionist), string(ResourcePatients), string(ActionRead)},
		{Subject(domain.RoleReceptionist), string(ResourcePatients), string(ActionWrite)},
		{Subject(domain.RoleReceptionist), string(ResourceAppointments), string(ActionRead)},
		{Subject(domain.RoleReceptionist), string(ResourceAppointments), string(ActionWrite)},
		{Subject(domain.RoleReceptionist), string(ResourceStaff), string(ActionRead)},
		{Subject(domain.RoleReceptionist), string(ResourceDepartments), string(ActionRead)},
		{Subject(domain.RoleReceptionist), string(ResourceShifts), string(ActionRead)},
		{Subject(domain.RoleReceptionist), string(ResourceTasks), string(ActionRead)},
		{Subject(domain.RoleReceptionist), string(ResourceTasks), string(ActionWrite)},
		{Subject(domain.RoleReceptionist), string(ResourceNotifications), string(ActionRead)},
		{Subject(domain.RoleReceptionist), string(ResourceNotifications), string(ActionWrite)},

		{Subject(domain.RolePatient), string(ResourcePatients), string(ActionRead)},
		{Subject(domain.RolePatient), string(ResourceAppointments), string(ActionRead)},
		{Subject(domain.RolePatient), string(ResourceAppointments), string(ActionWrite)},
		{Subject(domain.RolePatient), string(ResourceMedicalRecords), string(ActionRead)},
		{Subject(domain.RolePatient), string(ResourceStaff), string(ActionRead)},
		{Subject(domain.RolePatient), string(ResourceDepartments), string(ActionRead)},
		{Subject(domain.RolePatient), string(ResourceNotifications), string(ActionRead)},
		{Subject(domain.RolePatient), string(ResourceNotifications), string(ActionWrite)},
	}
}

func defaultGroupings() [][]string {
	return [][]string{
		{Subject(domain.RoleDoctor), clinicalStaff},
		{Subject(domain.RoleNurse), clinicalStaff},
	}
}

type Authorizer struct {
	enforcer *casbin.Enforcer
}

// New builds an authorizer from the built-in hospital policy set.
func New() (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: parsing model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: creating enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(defaultPolicies()); err != nil {
		return nil, fmt.Errorf("authz: loading policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(defaultGroupings()); err != nil {
		return nil, fmt.Errorf("authz: loading role groups: %w", err)
	}
	return &Authorizer{enforcer: enforcer}, nil
}

func Subject(role domain.Role) string {
	slug := strings.TrimSpace(strings.ToLower(string(role)))
	if slug == "" {
		slug = "anonymous"
	}
	return "role:" + slug
}

func (a *Authorizer) Authorize(role domain.Role, res Resource, act Action) (bool, error) {
	return a.enforcer.Enforce(Subject(role), string(res), string(act))
}
