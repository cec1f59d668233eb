package printhandlers

import (
	"context"
	"sync"

	printservice "github.com/Black-And-White-Club/printboard/app/modules/print/application"
)

// ------------------------
// Fake Print Service
// ------------------------

type FakePrintService struct {
	trace []string

	DispatchPrintFunc func(ctx context.Context, message string) (printservice.PrintJob, error)
}

func NewFakePrintService() *FakePrintService {
	return &FakePrintService{trace: []string{}}
}

func (f *FakePrintService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakePrintService) DispatchPrint(ctx context.Context, message string) (printservice.PrintJob, error) {
	f.trace = append(f.trace, "DispatchPrint")
	if f.DispatchPrintFunc != nil {
		return f.DispatchPrintFunc(ctx, message)
	}
	return printservice.PrintJob{Message: message}, nil
}

// ------------------------
// Fake Printer
// ------------------------

type FakePrinter struct {
	mu   sync.Mutex
	jobs []printservice.PrintJob

	PrintFunc func(ctx context.Context, job printservice.PrintJob) error
}

func (f *FakePrinter) Jobs() []printservice.PrintJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]printservice.PrintJob(nil), f.jobs...)
}

func (f *FakePrinter) Print(ctx context.Context, job printservice.PrintJob) error {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()
	if f.PrintFunc != nil {
		return f.PrintFunc(ctx, job)
	}
	return nil
}

// ------------------------
// Fake Print Metrics
// ------------------------

type FakePrintMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (f *FakePrintMetrics) RecordPrintJob(_ context.Context, outcome string) {
	f.mu.Lock()
	f.outcomes = append(f.outcomes, outcome)
	f.mu.Unlock()
}

func (f *FakePrintMetrics) Outcomes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.outcomes...)
}

var (
	_ printservice.Service = (*FakePrintService)(nil)
	_ printservice.Printer = (*FakePrinter)(nil)
)
