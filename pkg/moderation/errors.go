package moderation

import "errors"

var (
	ErrNotAuthorized     = errors.New("actor rank does not exceed target rank")
	ErrMinModRoleMissing = errors.New("minimum moderator role is not configured")
	ErrBelowMinModRole   = errors.New("actor is below the minimum moderator role")
	ErrNotReversible     = errors.New("sanction kind cannot be reversed")
	ErrNoPendingSanction = errors.New("no pending sanction for member")
	ErrUnknownKind       = errors.New("unknown sanction kind")
	ErrNoTargets         = errors.New("no targets")
	ErrSanctionNotFound  = errors.New("sanction not found")
	ErrInvalidDuration   = errors.New("duration out of range")
)
