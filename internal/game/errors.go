package game

import "errors"

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already exists")

	// Grid errors.
	ErrOutOfBounds           = errors.New("coordinate out of bounds")
	ErrRoomExists            = errors.New("room already exists")
	ErrRoomNull              = errors.New("room does not exist")
	ErrExitRoomNull          = errors.New("no room at exit target")
	ErrExitExists            = errors.New("exit already exists")
	ErrExitNull              = errors.New("no exit in that direction")
	ErrDirectionNotSupported = errors.New("direction not supported")
	ErrRoomOccupied          = errors.New("room is occupied")
	ErrRoomHasExits          = errors.New("room still has exits")
	ErrSpawnRoom             = errors.New("spawn room cannot be destroyed")
	ErrMapExists             = errors.New("map already exists")

	// Counter errors.
	ErrDepleted       = errors.New("counter depleted")
	ErrNegativeAmount = errors.New("amount must not be negative")
)
