package printservice

import "context"

// Service dispatches print jobs.
type Service interface {
	DispatchPrint(ctx context.Context, message string) (PrintJob, error)
}

// Printer performs a print job.
type Printer interface {
	Print(ctx context.Context, job PrintJob) error
}
