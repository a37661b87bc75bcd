package commands

import (
	"errors"
	"fmt"

	"github.com/benhook1013/fireengine/internal/game"
)

// UserError represents an error that should be displayed to the user.
// These are not system failures - just invalid input or usage.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// gridError converts a world grid error into the message for the player who
// tried to act toward dir. Errors with no player-facing meaning are returned
// unchanged.
func gridError(err error, dir game.Direction) error {
	switch {
	case errors.Is(err, game.ErrDirectionNotSupported):
		return NewUserError("That is not a direction you can go.")
	case errors.Is(err, game.ErrOutOfBounds):
		return NewUserError("You cannot build beyond the edge of the map.")
	case errors.Is(err, game.ErrRoomExists):
		return NewUserError(fmt.Sprintf("There is already a room to the %s.", dir))
	case errors.Is(err, game.ErrExitRoomNull):
		return NewUserError(fmt.Sprintf("There is no room to the %s.", dir))
	case errors.Is(err, game.ErrExitExists):
		return NewUserError(fmt.Sprintf("There is already an exit to the %s.", dir))
	case errors.Is(err, game.ErrExitNull):
		return NewUserError(fmt.Sprintf("There is no exit to the %s.", dir))
	case errors.Is(err, game.ErrRoomOccupied):
		return NewUserError("Someone is standing in that room.")
	case errors.Is(err, game.ErrRoomHasExits):
		return NewUserError("That room still has exits leading to or from it.")
	case errors.Is(err, game.ErrSpawnRoom):
		return NewUserError("The heart of the map cannot be destroyed.")
	case errors.Is(err, game.ErrRoomNull):
		return NewUserError("You are not anywhere you can build from.")
	}
	return err
}

// parseDirection reads the direction argument of cmd.
func parseDirection(cmd *Command) (game.Direction, error) {
	d, err := game.ParseDirection(cmd.Arg("direction"))
	if err != nil {
		return d, gridError(err, d)
	}
	return d, nil
}
