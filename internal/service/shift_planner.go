package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/config"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrPlannerBusy     = errors.New("a shift auto-assignment run is already in progress")
	ErrPlannerDisabled = errors.New("shift auto-assignment is disabled")
)

// ShiftModel turns a rostering prompt into a free-text reply.
type ShiftModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Proposal verdicts, also used as metric labels.
const (
	verdictCreated      = "created"
	verdictUnknownStaff = "unknown_staff"
	verdictInvalid      = "invalid"
	verdictOverlap      = "overlap"
)

const maxNotesLength = 500

type Rejection struct {
	Index   int    `json:"index"`
	StaffID string `json:"staff_id,omitempty"`
	Verdict string `json:"verdict"`
	Reason  string `json:"reason"`
}

type DepartmentReport struct {
	DepartmentID   uuid.UUID   `json:"department_id"`
	DepartmentName string      `json:"department_name"`
	StaffCount     int         `json:"staff_count"`
	Proposed       int         `json:"proposed"`
	Created        int         `json:"created"`
	Rejected       int         `json:"rejected"`
	Skipped        string      `json:"skipped,omitempty"`
	Error          string      `json:"error,omitempty"`
	Rejections     []Rejection `json:"rejections,omitempty"`
}

type PlannerReport struct {
	RunID       uuid.UUID          `json:"run_id"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Window      planningWindow     `json:"window"`
	Departments []DepartmentReport `json:"departments"`
}

func (r *PlannerReport) Totals() (proposed, created, rejected int) {
	for _, d := range r.Departments {
		proposed += d.Proposed
		created += d.Created
		rejected += d.Rejected
	}
	return
}

func (r *PlannerReport) failedDepartments() int {
	n := 0
	for _, d := range r.Departments {
		if d.Error != "" {
			n++
		}
	}
	return n
}

// ShiftPlanner asks a generative model to draft shift rosters and persists
// the proposals that survive validation.
type ShiftPlanner struct {
	cfg       config.ShiftPlannerConfig
	model     ShiftModel
	deptRepo  department.Repository
	staffRepo staff.Repository
	shiftRepo shift.Repository
	shifts    *ShiftService
	metrics   *metrics.Collector
	tracer    trace.Tracer
	log       *zap.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewShiftPlanner returns a planner. A nil model leaves it disabled.
func NewShiftPlanner(
	cfg config.ShiftPlannerConfig,
	model ShiftModel,
	deptRepo department.Repository,
	staffRepo staff.Repository,
	shiftRepo shift.Repository,
	shifts *ShiftService,
	m *metrics.Collector,
	log *zap.Logger,
) *ShiftPlanner {
	return &ShiftPlanner{
		cfg:       cfg,
		model:     model,
		deptRepo:  deptRepo,
		staffRepo: staffRepo,
		shiftRepo: shiftRepo,
		shifts:    shifts,
		metrics:   m,
		tracer:    otel.Tracer("carehub/shift-planner"),
		log:       log.Named("shift_planner"),
		now:       time.Now,
	}
}

func (p *ShiftPlanner) Enabled() bool {
	return p.model != nil
}

// RunTimeout bounds a whole RunOnce pass; zero means unbounded.
func (p *ShiftPlanner) RunTimeout() time.Duration {
	return p.cfg.RunTimeout
}

// Start runs the planner on startup when configured and then on every
// interval tick until ctx is cancelled.
func (p *ShiftPlanner) Start(ctx context.Context) error {
	if !p.Enabled() {
		p.log.Info("shift planner disabled")
		return nil
	}

	p.log.Info("shift planner started",
		zap.Duration("interval", p.cfg.Interval),
		zap.Int("horizon_days", p.cfg.HorizonDays),
	)

	if p.cfg.RunOnStartup {
		p.runLogged(ctx)
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("shift planner stopped")
			return nil
		case <-ticker.C:
			p.runLogged(ctx)
		}
	}
}

func (p *ShiftPlanner) runLogged(ctx context.Context) {
	report, err := p.RunOnce(ctx)
	switch {
	case errors.Is(err, ErrPlannerBusy):
		p.log.Info("skipping scheduled run; previous run still in progress")
	case err != nil:
		p.log.Error("shift auto-assignment run failed", zap.Error(err))
	default:
		proposed, created, rejected := report.Totals()
		p.log.Info("shift auto-assignment run finished",
			zap.String("run_id", report.RunID.String()),
			zap.Int("departments", len(report.Departments)),
			zap.Int("proposed", proposed),
			zap.Int("created", created),
			zap.Int("rejected", rejected),
			zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
		)
	}
}

// RunOnce plans every active department once. Only one run may be in flight;
// a concurrent caller gets ErrPlannerBusy.
func (p *ShiftPlanner) RunOnce(ctx context.Context) (*PlannerReport, error) {
	if !p.Enabled() {
		return nil, ErrPlannerDisabled
	}
	if !p.mu.TryLock() {
		p.metrics.PlannerRunsTotal.WithLabelValues("busy").Inc()
		return nil, ErrPlannerBusy
	}
	defer p.mu.Unlock()

	if p.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RunTimeout)
		defer cancel()
	}

	started := p.now()
	report := &PlannerReport{
		RunID:     uuid.New(),
		StartedAt: started.UTC(),
		Window:    windowFor(started, p.cfg.HorizonDays),
	}

	ctx, span := p.tracer.Start(ctx, "shift_planner.run", trace.WithAttributes(
		attribute.String("run_id", report.RunID.String()),
		attribute.String("window.from", report.Window.From.Format(time.RFC3339)),
		attribute.String("window.to", report.Window.To.Format(time.RFC3339)),
	))
	defer span.End()

	outcome := "success"
	defer func() {
		p.metrics.PlannerRunsTotal.WithLabelValues(outcome).Inc()
		p.metrics.PlannerRunDuration.Observe(time.Since(started).Seconds())
	}()

	depts, err := p.deptRepo.ListActive(ctx)
	if err != nil {
		outcome = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing departments")
		return nil, fmt.Errorf("listing departments: %w", err)
	}

	caller := domain.System
	caller.RequestID = "shift-planner-" + report.RunID.String()

	for _, d := range depts {
		if ctx.Err() != nil {
			outcome = "failed"
			return nil, ctx.Err()
		}
		report.Departments = append(report.Departments, p.planDepartment(ctx, caller, d, report.Window))
	}

	report.FinishedAt = p.now().UTC()
	if failed := report.failedDepartments(); failed > 0 {
		outcome = "partial"
		if failed == len(report.Departments) {
			outcome = "failed"
		}
	}
	span.SetAttributes(attribute.Int("departments", len(report.Departments)))
	return report, nil
}

func (p *ShiftPlanner) planDepartment(ctx context.Context, caller domain.Caller, d *department.Department, window planningWindow) DepartmentReport {
	rep := DepartmentReport{DepartmentID: d.ID, DepartmentName: d.Name}
	log := p.log.With(zap.String("department_id", d.ID.String()), zap.String("department", d.Code))

	ctx, span := p.tracer.Start(ctx, "shift_planner.department", trace.WithAttributes(
		attribute.String("department.id", d.ID.String()),
		attribute.String("department.code", d.Code),
	))
	defer span.End()

	fail := func(stage string, err error) DepartmentReport {
		rep.Error = fmt.Sprintf("%s: %v", stage, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, stage)
		log.Warn("department skipped", zap.String("stage", stage), zap.Error(err))
		return rep
	}

	members, err := p.staffRepo.ListActiveByDepartment(ctx, d.ID)
	if err != nil {
		return fail("loading staff", err)
	}
	rep.StaffCount = len(members)
	if len(members) == 0 {
		rep.Skipped = "no active staff"
		return rep
	}

	historyFrom := window.From.AddDate(0, 0, -p.cfg.HistoryDays)
	history, err := p.shiftRepo.ListByDepartmentBetween(ctx, d.ID, historyFrom, window.From)
	if err != nil {
		return fail("loading history", err)
	}
	scheduled, err := p.shiftRepo.ListByDepartmentBetween(ctx, d.ID, window.From, window.To)
	if err != nil {
		return fail("loading scheduled shifts", err)
	}

	prompt := buildShiftPrompt(promptInput{
		Department: d,
		Staff:      members,
		History:    history,
		Scheduled:  scheduled,
		Window:     window,
	})

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	reply, err := p.model.Generate(callCtx, prompt)
	cancel()
	if err != nil {
		return fail("calling model", err)
	}

	proposals, err := parseProposals(reply)
	if err != nil {
		log.Debug("unparseable model reply", zap.String("reply", truncate(reply, 2000)))
		return fail("parsing reply", err)
	}
	rep.Proposed = len(proposals)
	span.SetAttributes(attribute.Int("proposals", len(proposals)))

	roster := make(map[uuid.UUID]*staff.Member, len(members))
	for _, m := range members {
		roster[m.ID] = m
	}

	var accepted []*shift.Shift
	reject := func(i int, staffID, verdict, reason string) {
		rep.Rejected++
		rep.Rejections = append(rep.Rejections, Rejection{Index: i, StaffID: staffID, Verdict: verdict, Reason: reason})
		p.metrics.PlannerProposalsTotal.WithLabelValues(verdict).Inc()
	}

	for i, prop := range proposals {
		sh, member, verdict, reason := p.validateProposal(prop, d.ID, roster, window)
		if verdict != "" {
			reject(i, prop.StaffID, verdict, reason)
			continue
		}

		if overlapsAccepted(accepted, sh) {
			reject(i, prop.StaffID, verdictOverlap, "overlaps another proposal in the same reply")
			continue
		}

		err := p.shifts.place(ctx, caller, sh, member)
		if errors.Is(err, shift.ErrShiftOverlap) {
			reject(i, prop.StaffID, verdictOverlap, err.Error())
			continue
		}
		if err != nil {
			reject(i, prop.StaffID, verdictInvalid, err.Error())
			log.Error("failed to persist proposed shift", zap.Error(err))
			continue
		}

		accepted = append(accepted, sh)
		rep.Created++
		p.metrics.PlannerProposalsTotal.WithLabelValues(verdictCreated).Inc()
	}

	span.SetAttributes(attribute.Int("created", rep.Created), attribute.Int("rejected", rep.Rejected))
	log.Info("department planned",
		zap.Int("proposed", rep.Proposed),
		zap.Int("created", rep.Created),
		zap.Int("rejected", rep.Rejected),
	)
	return rep
}

// validateProposal turns a proposal into a shift, or returns a verdict and
// reason explaining why it was dropped. Proposals are never repaired.
func (p *ShiftPlanner) validateProposal(
	prop shiftProposal,
	departmentID uuid.UUID,
	roster map[uuid.UUID]*staff.Member,
	window planningWindow,
) (*shift.Shift, *staff.Member, string, string) {
	if prop.decodeErr != nil {
		return nil, nil, verdictInvalid, "malformed proposal: " + prop.decodeErr.Error()
	}
	staffID, err := uuid.Parse(prop.StaffID)
	if err != nil {
		return nil, nil, verdictUnknownStaff, "staffId is not a valid id"
	}
	member, ok := roster[staffID]
	if !ok {
		return nil, nil, verdictUnknownStaff, "staffId is not on the department roster"
	}

	start, err := parseProposalTime(prop.StartTime)
	if err != nil {
		return nil, nil, verdictInvalid, "startTime: " + err.Error()
	}
	end, err := parseProposalTime(prop.EndTime)
	if err != nil {
		return nil, nil, verdictInvalid, "endTime: " + err.Error()
	}
	if err := shift.ValidateInterval(start, end); err != nil {
		return nil, nil, verdictInvalid, err.Error()
	}
	if !window.contains(start) {
		return nil, nil, verdictInvalid, "shift starts outside the planning window"
	}

	typ := shift.Type(prop.ShiftType)
	if !typ.IsValid() {
		typ = shift.TypeForStart(start)
	}

	return &shift.Shift{
		StaffID:      staffID,
		DepartmentID: departmentID,
		Type:         typ,
		StartTime:    start,
		EndTime:      end,
		Source:       shift.SourceAuto,
		Notes:        truncate(prop.Notes, maxNotesLength),
	}, member, "", ""
}

func overlapsAccepted(accepted []*shift.Shift, sh *shift.Shift) bool {
	for _, a := range accepted {
		if a.StaffID == sh.StaffID && a.Overlaps(sh.StartTime, sh.EndTime) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
