package printservice

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/printboard/app/observability/attr"
)

// LogPrinter prints by writing the job to the log.
type LogPrinter struct {
	logger *slog.Logger
}

// NewLogPrinter creates a LogPrinter.
func NewLogPrinter(logger *slog.Logger) *LogPrinter {
	return &LogPrinter{logger: logger}
}

func (p *LogPrinter) Print(ctx context.Context, job PrintJob) error {
	p.logger.InfoContext(ctx, "Print job initiated: "+job.Message,
		attr.String("job_id", job.ID.String()),
		attr.Any("requested_at", job.RequestedAt),
	)
	return nil
}

var _ Printer = (*LogPrinter)(nil)
