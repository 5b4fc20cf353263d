package movement

import "errors"

var (
	ErrMovementAlreadyRequested = errors.New("a movement request already exists for this date")
	ErrMovementTypeNotAllowed   = errors.New("movement type is not allowed for this incidence")
	ErrNothingToJustify         = errors.New("the selected day has no incidence to justify")
)
