package printservice

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PrintJobRequestedV1 is the topic print jobs are published on.
const PrintJobRequestedV1 = "print.job.requested.v1"

// Print job outcomes recorded in metrics.
const (
	OutcomeDispatched    = "dispatched"
	OutcomePublishFailed = "publish_failed"
	OutcomePrinted       = "printed"
	OutcomePrintFailed   = "print_failed"
	OutcomeMalformed     = "malformed"
)

// PrintJob is the payload of PrintJobRequestedV1.
type PrintJob struct {
	ID          uuid.UUID `json:"id"`
	Message     string    `json:"message"`
	RequestedAt time.Time `json:"requested_at"`
}

// ErrPublishFailed is returned when the job could not be handed to the bus.
var ErrPublishFailed = errors.New("failed to publish print job")
