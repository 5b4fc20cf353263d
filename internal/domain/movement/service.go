package movement

import (
	"context"
)

type MovementService interface {
	// Create submits a correction request; the server assigns the pending status.
	Create(ctx context.Context, req CreateMovementRequest) (MovementResponse, error)

	// ListMine returns the employee's requests, oldest submission first.
	ListMine(ctx context.Context, filter MyMovementFilter) ([]MovementResponse, error)
}
