package statemachine

import (
	"errors"

	"foodie-api/models"
)

// Transition defines a valid state change and the role allowed to
// perform it.
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// validTransitions is the authoritative lifecycle definition. The
// kitchen side (admin) moves an order up to Prepared, a courier claims
// it, the admin dispatches, and the courier finishes it. Cancellation
// is handled separately in CanTransition because it is reachable from
// every non-terminal state.
var validTransitions = []Transition{
	// Kitchen progression, driven by the restaurant owner.
	{From: models.StatusPending, To: models.StatusAccepted, Actor: models.RoleAdmin},
	{From: models.StatusPending, To: models.StatusCooking, Actor: models.RoleAdmin},
	{From: models.StatusPending, To: models.StatusPrepared, Actor: models.RoleAdmin},
	{From: models.StatusAccepted, To: models.StatusCooking, Actor: models.RoleAdmin},
	{From: models.StatusAccepted, To: models.StatusPrepared, Actor: models.RoleAdmin},
	{From: models.StatusCooking, To: models.StatusPrepared, Actor: models.RoleAdmin},
	// A courier claims a prepared order.
	{From: models.StatusPrepared, To: models.StatusDriverAssigned, Actor: models.RoleDelivery},
	// Two-party handoff: the admin dispatches even though the courier
	// is already assigned.
	{From: models.StatusDriverAssigned, To: models.StatusOutForDelivery, Actor: models.RoleAdmin},
	// The assigned courier delivers, then finishes.
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: models.RoleDelivery},
	{From: models.StatusDelivered, To: models.StatusCompleted, Actor: models.RoleDelivery},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	if !status.IsTerminal() && !seen[models.StatusCancelled] {
		nexts = append(nexts, models.StatusCancelled)
	}
	return nexts
}

// CanTransition checks if a given actor role can move an order from one
// state to another. Cancellation is allowed from any non-terminal state
// for customers and admins; everything else must match the transition
// table.
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if to == models.StatusCancelled {
		if from.IsTerminal() {
			return errors.New("cannot cancel an order in terminal state " + string(from))
		}
		if actor != models.RoleUser && actor != models.RoleAdmin {
			return errors.New("role '" + string(actor) + "' cannot cancel orders")
		}
		return nil
	}
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for role '" + string(actor) + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
