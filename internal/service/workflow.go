package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kushiservices/admin-backend/internal/db"
	"github.com/kushiservices/admin-backend/internal/events"
	"github.com/kushiservices/admin-backend/internal/models"
	"github.com/kushiservices/admin-backend/internal/upstream"
)

// ErrCancellationReason rejects a cancel without a reason before any
// upstream call is made.
var ErrCancellationReason = errors.New("cancellation requires a reason")

// AuditStore records workflow run outcomes. db.Store implements it; a
// nil store disables auditing without disabling the workflow.
type AuditStore interface {
	CreateWorkflowRun(ctx context.Context, bookingID int, kind string) (string, error)
	FinishWorkflowRun(ctx context.Context, id, status string, steps []byte) error
}

// StepResult is the audit record of one upstream call inside a run.
type StepResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Step pairs a name with the upstream call it performs.
type Step struct {
	Name string
	Run  func(context.Context) error
}

// ApplyInOrder executes steps strictly in sequence, stopping at the
// first failure. Completed steps are never rolled back; the returned
// results show exactly how far the run got.
func ApplyInOrder(ctx context.Context, steps []Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))
	for _, s := range steps {
		if err := s.Run(ctx); err != nil {
			results = append(results, StepResult{Name: s.Name, Error: err.Error()})
			return results, fmt.Errorf("%s: %w", s.Name, err)
		}
		results = append(results, StepResult{Name: s.Name, OK: true})
	}
	return results, nil
}

// StatusUpdate is one bundled edit from the booking detail form.
// PaymentStatus and Workers are optional; Status and Discount always
// apply.
type StatusUpdate struct {
	Status             string
	CanceledBy         string
	CancellationReason string
	Discount           float64
	PaymentStatus      string
	Workers            []string
}

// Workflow orchestrates multi-step booking updates against the upstream
// API, audits each attempt, and broadcasts confirmed changes.
type Workflow struct {
	Upstream upstream.Client
	Audit    AuditStore
	Bus      *events.Bus
	Logger   zerolog.Logger
}

// ApplyStatusUpdate runs the bundle in its fixed order: status first,
// then discount, then payment status when given, then one assign call
// per worker. It returns the locally updated booking only when every
// step succeeded; on failure the caller's copy must stay untouched.
func (w *Workflow) ApplyStatusUpdate(ctx context.Context, b models.Booking, upd StatusUpdate) (models.Booking, error) {
	status := NormalizeStatus(upd.Status)
	reason := strings.TrimSpace(upd.CancellationReason)
	if status == models.StatusCancelled && reason == "" {
		return models.Booking{}, ErrCancellationReason
	}

	canceledBy := ""
	if status == models.StatusCancelled {
		canceledBy = strings.ToLower(strings.TrimSpace(upd.CanceledBy))
		if canceledBy == "" {
			canceledBy = models.CanceledByAdmin
		}
	} else {
		reason = ""
	}

	discount := ClampDiscount(upd.Discount, b.BaseAmount)
	payment := strings.ToLower(strings.TrimSpace(upd.PaymentStatus))
	workers := dedupeWorkers(upd.Workers)

	steps := []Step{
		{Name: "update-status", Run: func(ctx context.Context) error {
			return w.Upstream.UpdateStatus(ctx, b.ID, upstream.StatusRequest{
				Status:             status,
				CanceledBy:         canceledBy,
				CancellationReason: reason,
			})
		}},
		{Name: "update-discount", Run: func(ctx context.Context) error {
			return w.Upstream.UpdateDiscount(ctx, b.ID, discount)
		}},
	}
	if payment != "" {
		steps = append(steps, Step{Name: "update-payment-status", Run: func(ctx context.Context) error {
			return w.Upstream.UpdatePaymentStatus(ctx, b.ID, payment)
		}})
	}
	for _, name := range workers {
		name := name
		steps = append(steps, Step{Name: "assign-worker:" + name, Run: func(ctx context.Context) error {
			return w.Upstream.AssignWorker(ctx, b.ID, name)
		}})
	}

	results, err := w.run(ctx, b.ID, "status-update", steps)
	if err != nil {
		w.Logger.Error().Err(err).Int("booking_id", b.ID).
			Int("steps_done", countOK(results)).Int("steps_total", len(steps)).
			Msg("status update aborted")
		return models.Booking{}, err
	}

	updated := b
	updated.Status = status
	updated.CanceledBy = canceledBy
	updated.CancellationReason = reason
	updated.Discount = discount
	updated.TotalAmount = models.GrandTotal(updated.BaseAmount, discount)
	if payment != "" {
		updated.PaymentStatus = payment
	}
	if len(workers) > 0 {
		updated.Workers = workers
	}

	w.publish(updated, "status-update")
	return updated, nil
}

// AssignWorkers issues one assign call per name, in order. On failure it
// returns the names that did land, so the caller can reconcile: applied
// assignments stay applied.
func (w *Workflow) AssignWorkers(ctx context.Context, b models.Booking, names []string) (models.Booking, []string, error) {
	names = dedupeWorkers(names)
	applied := make([]string, 0, len(names))

	steps := make([]Step, 0, len(names))
	for _, name := range names {
		name := name
		steps = append(steps, Step{Name: "assign-worker:" + name, Run: func(ctx context.Context) error {
			if err := w.Upstream.AssignWorker(ctx, b.ID, name); err != nil {
				return err
			}
			applied = append(applied, name)
			return nil
		}})
	}

	_, err := w.run(ctx, b.ID, "assign-workers", steps)

	updated := b
	updated.Workers = mergeWorkers(b.Workers, applied)
	if err != nil {
		return updated, applied, err
	}
	w.publish(updated, "assign-workers")
	return updated, applied, nil
}

// RemoveWorker unassigns one worker and splices it out locally once the
// upstream confirms.
func (w *Workflow) RemoveWorker(ctx context.Context, b models.Booking, name string) (models.Booking, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Booking{}, errors.New("worker name required")
	}
	steps := []Step{{Name: "remove-worker:" + name, Run: func(ctx context.Context) error {
		return w.Upstream.RemoveWorker(ctx, b.ID, name)
	}}}
	if _, err := w.run(ctx, b.ID, "remove-worker", steps); err != nil {
		return models.Booking{}, err
	}

	updated := b
	kept := make([]string, 0, len(b.Workers))
	for _, worker := range b.Workers {
		if worker != name {
			kept = append(kept, worker)
		}
	}
	updated.Workers = kept
	w.publish(updated, "remove-worker")
	return updated, nil
}

// InspectionUpdate is the edit form of an inspection record.
type InspectionUpdate struct {
	InspectionStatus string
	SiteVisit        string
	BookingAmount    float64
	Discount         float64
	Workers          []string
}

// ApplyInspectionUpdate writes the inspection edit upstream in one call
// and returns the normalized result. The booking status mirrors the
// inspection status, so a confirmed inspection becomes a confirmed
// booking.
func (w *Workflow) ApplyInspectionUpdate(ctx context.Context, b models.Booking, upd InspectionUpdate) (models.Booking, error) {
	inspStatus := NormalizeStatus(upd.InspectionStatus)
	amount := upd.BookingAmount
	if amount < 0 {
		amount = 0
	}
	discount := ClampDiscount(upd.Discount, amount)
	workers := dedupeWorkers(upd.Workers)

	req := upstream.InspectionRequest{
		InspectionStatus: inspStatus,
		BookingAmount:    amount,
		BookingStatus:    inspStatus,
		SiteVisit:        strings.ToLower(strings.TrimSpace(upd.SiteVisit)),
		WorkerAssign:     strings.Join(workers, ", "),
		Discount:         discount,
	}

	var raw upstream.Booking
	steps := []Step{{Name: "update-inspection", Run: func(ctx context.Context) error {
		var err error
		raw, err = w.Upstream.UpdateInspection(ctx, b.ID, req)
		return err
	}}}
	if _, err := w.run(ctx, b.ID, "inspection-update", steps); err != nil {
		return models.Booking{}, err
	}

	updated := NormalizeBooking(raw)
	if updated.ID == 0 {
		// Some backends return an empty body on update; fall back to a
		// local projection of what was sent.
		updated = b
		updated.InspectionStatus = inspStatus
		updated.Status = inspStatus
		updated.SiteVisit = req.SiteVisit
		updated.BaseAmount = amount
		updated.Discount = discount
		updated.TotalAmount = models.GrandTotal(amount, discount)
		updated.Workers = workers
	}
	w.publish(updated, "inspection-update")
	return updated, nil
}

// MoveEligible reports whether an inspection record is ready to graduate
// into the bookings list: confirmed, with a priced amount.
func MoveEligible(b models.Booking) bool {
	return b.InspectionStatus == models.StatusConfirmed && b.BaseAmount > 0
}

// run executes the steps inside an audit record. Audit failures are
// logged, never propagated; the upstream outcome is what counts.
func (w *Workflow) run(ctx context.Context, bookingID int, kind string, steps []Step) ([]StepResult, error) {
	runID := ""
	if w.Audit != nil {
		id, err := w.Audit.CreateWorkflowRun(ctx, bookingID, kind)
		if err != nil {
			w.Logger.Warn().Err(err).Str("kind", kind).Msg("audit open failed")
		} else {
			runID = id
		}
	}

	results, err := ApplyInOrder(ctx, steps)

	if runID != "" {
		status := db.RunSuccess
		if err != nil {
			status = db.RunFailed
		}
		payload, merr := json.Marshal(results)
		if merr != nil {
			payload = []byte("[]")
		}
		if ferr := w.Audit.FinishWorkflowRun(ctx, runID, status, payload); ferr != nil {
			w.Logger.Warn().Err(ferr).Str("run_id", runID).Msg("audit close failed")
		}
	}
	return results, err
}

func (w *Workflow) publish(b models.Booking, kind string) {
	if w.Bus == nil {
		return
	}
	w.Bus.Publish(events.BookingUpdate{
		BookingID:     b.ID,
		Kind:          kind,
		Status:        b.Status,
		Discount:      b.Discount,
		TotalAmount:   b.TotalAmount,
		PaymentStatus: b.PaymentStatus,
		Workers:       b.Workers,
		UpdatedAt:     time.Now().UTC(),
	})
}

func dedupeWorkers(names []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func mergeWorkers(current, added []string) []string {
	return dedupeWorkers(append(append([]string{}, current...), added...))
}

func countOK(results []StepResult) int {
	n := 0
	for _, r := range results {
		if r.OK {
			n++
		}
	}
	return n
}
