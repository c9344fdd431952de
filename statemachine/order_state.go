package statemachine

import (
	"errors"

	"dishdash-api/models"
)

// StatusGrant defines which role may move an order into a given status.
// The grant is keyed on the target status only: the engine does not
// require the current status to be a particular predecessor.
type StatusGrant struct {
	Actor models.UserRole
	To    models.OrderStatus
}

// statusGrants is the authoritative definition of who may set what.
// Clients never edit an order; they only create it (born Pending).
var statusGrants = []StatusGrant{
	// Owner starts cooking an incoming order
	{Actor: models.RoleOwner, To: models.StatusCooking},
	// Driver picks up and delivers
	{Actor: models.RoleDelivery, To: models.StatusPickedUp},
	{Actor: models.RoleDelivery, To: models.StatusDelivered},
}

type grantKey struct {
	Actor models.UserRole
	To    models.OrderStatus
}

// Build a lookup map for O(1) validation
var grantMap = func() map[grantKey]bool {
	m := make(map[grantKey]bool)
	for _, g := range statusGrants {
		m[grantKey{g.Actor, g.To}] = true
	}
	return m
}()

// AllowedStatuses returns every status a role may set, for documentation.
func AllowedStatuses(role models.UserRole) []models.OrderStatus {
	var out []models.OrderStatus
	for _, g := range statusGrants {
		if g.Actor == role {
			out = append(out, g.To)
		}
	}
	return out
}

// CanSetStatus checks whether a role is allowed to move an order into the
// requested status.
func CanSetStatus(role models.UserRole, to models.OrderStatus) error {
	if grantMap[grantKey{role, to}] {
		return nil
	}
	return errors.New("role '" + string(role) + "' may not set an order to " + string(to))
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s models.OrderStatus) bool {
	switch s {
	case models.StatusPending, models.StatusCooking, models.StatusPickedUp, models.StatusDelivered:
		return true
	}
	return false
}

// CanSee is the per-record visibility check, distinct from the role gate:
// a user sees an order only as its customer, its assigned driver, or the
// owner of its restaurant. The order must be loaded with its restaurant.
func CanSee(user *models.User, order *models.Order) bool {
	if user == nil || order == nil {
		return false
	}
	if order.CustomerID != nil && *order.CustomerID == user.ID {
		return true
	}
	if order.DriverID != nil && *order.DriverID == user.ID {
		return true
	}
	if order.Restaurant != nil && order.Restaurant.OwnerID == user.ID {
		return true
	}
	return false
}
