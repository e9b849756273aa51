// Package policy decides which actor may perform which operation.
//
// Every operation declares the set of roles it accepts and the ownership fact,
// if any, that grants access to non-admin actors. Decide is a pure function of
// (operation, actor, ownership facts) and never touches storage.
package policy

import (
	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

// Operation names a gated action.
type Operation string

const (
	ViewProperty        Operation = "property.view"
	CreateProperty      Operation = "property.create"
	UpdateProperty      Operation = "property.update"
	DeleteProperty      Operation = "property.delete"
	ListSales           Operation = "sale.list"
	CreateSale          Operation = "sale.create"
	ViewSale            Operation = "sale.view"
	UpdateSale          Operation = "sale.update"
	ViewSaleStats       Operation = "sale.stats"
	ViewSalePayments    Operation = "payment.list_by_sale"
	CreatePayment       Operation = "payment.create"
	UpdatePaymentStatus Operation = "payment.update_status"
	ListAllPayments     Operation = "payment.list_all"
	ListUsers           Operation = "user.list"
	ViewUserStats       Operation = "user.stats"
	UpdateUserRole      Operation = "user.update_role"
	ViewSelf            Operation = "user.me"
)

// Decision is the outcome of a policy check.
type Decision int

const (
	Deny Decision = iota
	Allow
	// DenyUnauthenticated means the operation requires an actor and none was given.
	DenyUnauthenticated
)

// RoleSet is a capability set of roles.
type RoleSet map[domain.Role]struct{}

// Roles builds a RoleSet.
func Roles(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s RoleSet) Has(role domain.Role) bool {
	_, ok := s[role]
	return ok
}

// Ownership names the ownership fact a rule checks.
type Ownership int

const (
	NoOwnership Ownership = iota
	PropertyOwner
	SaleParticipant
)

// Resource carries the ownership facts of the target resource.
type Resource struct {
	SellerID string
	BuyerID  string
}

// ForProperty returns ownership facts of a property.
func ForProperty(p *domain.Property) Resource {
	return Resource{SellerID: p.SellerID}
}

// ForSale returns ownership facts of a sale.
func ForSale(s *domain.Sale) Resource {
	return Resource{SellerID: s.SellerID, BuyerID: s.BuyerID}
}

// Rule describes who may perform an operation.
type Rule struct {
	Public    bool
	Roles     RoleSet
	Ownership Ownership
	Message   string
}

var (
	anyRole   = Roles(domain.RoleBuyer, domain.RoleSeller, domain.RoleAdmin)
	adminOnly = Roles(domain.RoleAdmin)
)

var rules = map[Operation]Rule{
	ViewProperty:        {Public: true},
	CreateProperty:      {Roles: Roles(domain.RoleSeller, domain.RoleAdmin), Message: "insufficient permissions"},
	UpdateProperty:      {Roles: anyRole, Ownership: PropertyOwner, Message: "not authorized to update this property"},
	DeleteProperty:      {Roles: anyRole, Ownership: PropertyOwner, Message: "not authorized to delete this property"},
	ListSales:           {Roles: anyRole},
	CreateSale:          {Roles: Roles(domain.RoleBuyer, domain.RoleAdmin), Message: "insufficient permissions"},
	ViewSale:            {Roles: anyRole, Ownership: SaleParticipant, Message: "not authorized to view this sale"},
	UpdateSale:          {Roles: anyRole, Ownership: SaleParticipant, Message: "not authorized to update this sale"},
	ViewSaleStats:       {Roles: adminOnly, Message: "insufficient permissions"},
	ViewSalePayments:    {Roles: anyRole, Ownership: SaleParticipant, Message: "not authorized to view these payments"},
	CreatePayment:       {Roles: anyRole, Ownership: SaleParticipant, Message: "not authorized to create payment for this sale"},
	UpdatePaymentStatus: {Roles: adminOnly, Message: "only admins can update payment status"},
	ListAllPayments:     {Roles: adminOnly, Message: "insufficient permissions"},
	ListUsers:           {Roles: adminOnly, Message: "insufficient permissions"},
	ViewUserStats:       {Roles: adminOnly, Message: "insufficient permissions"},
	UpdateUserRole:      {Roles: adminOnly, Message: "insufficient permissions"},
	ViewSelf:            {Roles: anyRole},
}

// Decide evaluates op for actor against the resource's ownership facts.
// Admins pass every ownership check; unknown operations are denied.
func Decide(op Operation, actor *domain.Actor, res Resource) Decision {
	rule, ok := rules[op]
	if !ok {
		return Deny
	}
	if rule.Public {
		return Allow
	}
	if actor == nil || actor.ID == "" {
		return DenyUnauthenticated
	}
	if !rule.Roles.Has(actor.Role) {
		return Deny
	}
	if actor.Role == domain.RoleAdmin {
		return Allow
	}
	switch rule.Ownership {
	case PropertyOwner:
		if res.SellerID == actor.ID {
			return Allow
		}
		return Deny
	case SaleParticipant:
		if res.BuyerID == actor.ID || res.SellerID == actor.ID {
			return Allow
		}
		return Deny
	}
	return Allow
}

// Authorize is Decide mapped onto the error taxonomy.
func Authorize(op Operation, actor *domain.Actor, res Resource) error {
	switch Decide(op, actor, res) {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return apperrors.NewUnauthorized("authentication required")
	}
	msg := rules[op].Message
	if msg == "" {
		msg = "not authorized"
	}
	return apperrors.NewForbidden(msg)
}
