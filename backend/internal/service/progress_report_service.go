package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
	pkgerrors "seguimientos/backend/pkg/errors"
)

// ── Progress report errors ──

var (
	// ErrReportNotFound is also returned for reports outside the caller's
	// (group, module) pairs so their existence is not revealed.
	ErrReportNotFound       = errors.New("progress report not found")
	ErrReportForbidden      = errors.New("you do not teach this group and module")
	ErrReportDuplicate      = errors.New("a progress report already exists for this group, module and month")
	ErrReportImmutableField = errors.New("assignment_id and month cannot be changed")
	ErrReportUnitMismatch   = errors.New("work unit does not belong to the assignment's module")
)

const requiredField = "this field is required"

// ProgressReportService the monthly report ledger
type ProgressReportService interface {
	Create(ctx context.Context, caller Caller, req *dto.CreateProgressReportRequest) (*dto.ProgressReportResponse, error)
	Get(ctx context.Context, caller Caller, id uint) (*dto.ProgressReportResponse, error)
	List(ctx context.Context, caller Caller, q *dto.ReportListQuery) ([]dto.ProgressReportResponse, error)
	Update(ctx context.Context, caller Caller, id uint, req *dto.UpdateProgressReportRequest) (*dto.ProgressReportResponse, error)
	Delete(ctx context.Context, caller Caller, id uint) error
}

type progressReportService struct {
	repo   *repository.Repository
	years  AcademicYearService
	logger *zap.Logger
}

// NewProgressReportService creates a ProgressReportService
func NewProgressReportService(repo *repository.Repository, years AcademicYearService, logger *zap.Logger) ProgressReportService {
	return &progressReportService{repo: repo, years: years, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *progressReportService) Create(ctx context.Context, caller Caller, req *dto.CreateProgressReportRequest) (*dto.ProgressReportResponse, error) {
	assignment, err := s.repo.TeachingAssignment.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("get assignment failed", zap.Uint("id", req.AssignmentID), zap.Error(err))
		return nil, err
	}

	pair := assignment.Pair()
	allowed, err := s.canAccess(ctx, caller, pair)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrReportForbidden
	}

	unit, err := s.unitInModule(ctx, req.CurrentUnitID, assignment.ModuleID)
	if err != nil {
		return nil, err
	}
	completedIDs := uniqueIDs(req.CompletedUnitIDs)
	if err := s.checkCompletedUnits(ctx, completedIDs, assignment.ModuleID); err != nil {
		return nil, err
	}

	report := &model.ProgressReport{
		AssignmentID:               assignment.ID,
		GroupID:                    assignment.GroupID,
		ModuleID:                   assignment.ModuleID,
		Month:                      req.Month,
		CurrentUnitID:              unit.ID,
		LastContentTaught:          req.LastContentTaught,
		Status:                     req.Status,
		StatusJustification:        req.StatusJustification,
		Compliance:                 *req.Compliance,
		NoncomplianceJustification: req.NoncomplianceJustification,
		NoncomplianceReason:        req.NoncomplianceReason,
		Evaluation:                 req.Evaluation,
	}
	if err := validateJustifications(report); err != nil {
		return nil, err
	}
	report.CreatedBy = &caller.TeacherID
	report.UpdatedBy = &caller.TeacherID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// serialise concurrent filings for the same pair
		if err := tx.TeachingAssignment.LockPair(ctx, pair); err != nil {
			return err
		}
		dup, err := tx.ProgressReport.ExistsForPair(ctx, pair, report.Month, 0)
		if err != nil {
			return err
		}
		if dup {
			return ErrReportDuplicate
		}
		if err := tx.ProgressReport.Create(ctx, report); err != nil {
			return err
		}
		if err := tx.ProgressReport.ReplaceCompletedUnits(ctx, report.ID, completedIDs); err != nil {
			return err
		}
		return tx.WorkUnit.ResetCoverage(ctx, report.ModuleID, unit.UnitNumber)
	})
	if err != nil {
		if errors.Is(err, ErrReportDuplicate) || pkgerrors.IsUniqueViolation(err) {
			return nil, ErrReportDuplicate
		}
		s.logger.Error("create progress report failed",
			zap.Uint("assignment_id", report.AssignmentID), zap.Int("month", report.Month), zap.Error(err))
		return nil, err
	}

	return s.load(ctx, report.ID)
}

// ────────────────────── Get / List ──────────────────────

func (s *progressReportService) Get(ctx context.Context, caller Caller, id uint) (*dto.ProgressReportResponse, error) {
	report, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toReportResponse(report), nil
}

func (s *progressReportService) List(ctx context.Context, caller Caller, q *dto.ReportListQuery) ([]dto.ProgressReportResponse, error) {
	year := q.Year
	if year == "" {
		current, err := s.years.CurrentYear(ctx)
		if err != nil {
			return nil, err
		}
		year = current
	}

	filter := repository.ReportFilter{Year: year, Month: q.Month}
	if !caller.IsAdmin {
		filter.VisibleTo = caller.TeacherID
	}

	reports, err := s.repo.ProgressReport.List(ctx, filter)
	if err != nil {
		s.logger.Error("list progress reports failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProgressReportResponse, 0, len(reports))
	for i := range reports {
		result = append(result, *toReportResponse(&reports[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *progressReportService) Update(ctx context.Context, caller Caller, id uint, req *dto.UpdateProgressReportRequest) (*dto.ProgressReportResponse, error) {
	report, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if req.AssignmentID != nil && *req.AssignmentID != report.AssignmentID {
		return nil, ErrReportImmutableField
	}
	if req.Month != nil && *req.Month != report.Month {
		return nil, ErrReportImmutableField
	}

	unit := report.CurrentUnit
	if req.CurrentUnitID != nil && (unit == nil || *req.CurrentUnitID != unit.ID) {
		if unit, err = s.unitInModule(ctx, *req.CurrentUnitID, report.ModuleID); err != nil {
			return nil, err
		}
	}
	if unit == nil {
		if unit, err = s.unitInModule(ctx, report.CurrentUnitID, report.ModuleID); err != nil {
			return nil, err
		}
	}

	var completedIDs []uint
	if req.CompletedUnitIDs != nil {
		completedIDs = uniqueIDs(*req.CompletedUnitIDs)
		if err := s.checkCompletedUnits(ctx, completedIDs, report.ModuleID); err != nil {
			return nil, err
		}
	}

	applyReportUpdate(report, req)
	report.CurrentUnitID = unit.ID
	if err := validateJustifications(report); err != nil {
		return nil, err
	}
	report.UpdatedBy = &caller.TeacherID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.ProgressReport.Update(ctx, report); err != nil {
			return err
		}
		if req.CompletedUnitIDs != nil {
			if err := tx.ProgressReport.ReplaceCompletedUnits(ctx, report.ID, completedIDs); err != nil {
				return err
			}
		}
		return tx.WorkUnit.ResetCoverage(ctx, report.ModuleID, unit.UnitNumber)
	})
	if err != nil {
		s.logger.Error("update progress report failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return s.load(ctx, report.ID)
}

// ────────────────────── Delete ──────────────────────

func (s *progressReportService) Delete(ctx context.Context, caller Caller, id uint) error {
	if _, err := s.findVisible(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.ProgressReport.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		s.logger.Error("delete progress report failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

// canAccess reports whether caller may see or file reports on pair.
func (s *progressReportService) canAccess(ctx context.Context, caller Caller, pair model.GroupModule) (bool, error) {
	if caller.IsAdmin {
		return true, nil
	}
	ok, err := s.repo.TeachingAssignment.TeachesPair(ctx, caller.TeacherID, pair)
	if err != nil {
		s.logger.Error("check teaching pair failed", zap.Uint("teacher_id", caller.TeacherID), zap.Error(err))
		return false, err
	}
	return ok, nil
}

func (s *progressReportService) findVisible(ctx context.Context, caller Caller, id uint) (*model.ProgressReport, error) {
	report, err := s.repo.ProgressReport.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		s.logger.Error("get progress report failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	ok, err := s.canAccess(ctx, caller, model.GroupModule{GroupID: report.GroupID, ModuleID: report.ModuleID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrReportNotFound
	}
	return report, nil
}

func (s *progressReportService) unitInModule(ctx context.Context, unitID, moduleID uint) (*model.WorkUnit, error) {
	unit, err := s.repo.WorkUnit.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkUnitNotFound
		}
		s.logger.Error("get work unit failed", zap.Uint("id", unitID), zap.Error(err))
		return nil, err
	}
	if unit.ModuleID != moduleID {
		return nil, ErrReportUnitMismatch
	}
	return unit, nil
}

func (s *progressReportService) checkCompletedUnits(ctx context.Context, ids []uint, moduleID uint) error {
	if len(ids) == 0 {
		return nil
	}
	units, err := s.repo.WorkUnit.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("list work units failed", zap.Error(err))
		return err
	}
	if len(units) != len(ids) {
		return ErrWorkUnitNotFound
	}
	for _, u := range units {
		if u.ModuleID != moduleID {
			return ErrReportUnitMismatch
		}
	}
	return nil
}

func (s *progressReportService) load(ctx context.Context, id uint) (*dto.ProgressReportResponse, error) {
	report, err := s.repo.ProgressReport.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("reload progress report failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toReportResponse(report), nil
}

// validateJustifications enforces the fields that become required when a
// report is off schedule or does not follow the programme.
func validateJustifications(r *model.ProgressReport) error {
	fe := pkgerrors.FieldErrors{}
	if r.Status != model.StatusOnTime && r.StatusJustification == "" {
		fe.Add("status_justification", requiredField)
	}
	if !r.Compliance {
		if r.NoncomplianceJustification == "" {
			fe.Add("noncompliance_justification", requiredField)
		}
		if r.NoncomplianceReason == "" {
			fe.Add("noncompliance_reason", requiredField)
		}
	}
	return fe.OrNil()
}

func applyReportUpdate(r *model.ProgressReport, req *dto.UpdateProgressReportRequest) {
	if req.LastContentTaught != nil {
		r.LastContentTaught = *req.LastContentTaught
	}
	if req.Status != nil {
		r.Status = *req.Status
	}
	if req.StatusJustification != nil {
		r.StatusJustification = *req.StatusJustification
	}
	if req.Compliance != nil {
		r.Compliance = *req.Compliance
	}
	if req.NoncomplianceJustification != nil {
		r.NoncomplianceJustification = *req.NoncomplianceJustification
	}
	if req.NoncomplianceReason != nil {
		r.NoncomplianceReason = *req.NoncomplianceReason
	}
	if req.Evaluation != nil {
		r.Evaluation = *req.Evaluation
	}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
