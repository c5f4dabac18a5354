package entities

import "errors"

// Ошибки инвариантов агрегатов.
var (
	ErrAlreadyMember = errors.New("player is already a member of the group")
	ErrOwnerRemoval  = errors.New("group owner cannot be removed from the group")
)
