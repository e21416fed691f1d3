package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
	"seguimientos/backend/pkg/academicyear"
)

var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// MissingReportService finds teaching assignments that still owe a monthly report.
type MissingReportService interface {
	// Missing lists assignments of year without a report for month. Results are
	// limited to the caller's own assignments unless an admin passes all.
	Missing(ctx context.Context, caller Caller, year string, month int, all bool) ([]dto.AssignmentResponse, error)
	// Annual maps each month with missing reports to the missing assignment ids.
	Annual(ctx context.Context, caller Caller, year string, all bool) (map[int][]uint, error)
	// MissingIDs is Missing across every teacher, used by scheduled reminders.
	MissingIDs(ctx context.Context, year string, month int) ([]uint, error)
}

type missingReportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMissingReportService creates a MissingReportService
func NewMissingReportService(repo *repository.Repository, logger *zap.Logger) MissingReportService {
	return &missingReportService{repo: repo, logger: logger}
}

func (s *missingReportService) Missing(ctx context.Context, caller Caller, year string, month int, all bool) ([]dto.AssignmentResponse, error) {
	missing, err := s.missing(ctx, year, month)
	if err != nil {
		return nil, err
	}

	missing = scopeToCaller(missing, caller, all)
	result := make([]dto.AssignmentResponse, 0, len(missing))
	for i := range missing {
		result = append(result, toAssignmentResponse(&missing[i]))
	}
	return result, nil
}

func (s *missingReportService) Annual(ctx context.Context, caller Caller, year string, all bool) (map[int][]uint, error) {
	if err := academicyear.Validate(year); err != nil {
		return nil, ErrAcademicYearFormat
	}

	assignments, err := s.repo.TeachingAssignment.List(ctx, repository.AssignmentFilter{Year: year})
	if err != nil {
		s.logger.Error("list assignments failed", zap.String("year", year), zap.Error(err))
		return nil, err
	}
	reports, err := s.repo.ProgressReport.List(ctx, repository.ReportFilter{Year: year})
	if err != nil {
		s.logger.Error("list progress reports failed", zap.String("year", year), zap.Error(err))
		return nil, err
	}

	byMonth := make(map[int][]model.ProgressReport, 12)
	for _, r := range reports {
		byMonth[r.Month] = append(byMonth[r.Month], r)
	}

	result := make(map[int][]uint)
	for month := 1; month <= 12; month++ {
		missing := scopeToCaller(resolveMissing(assignments, byMonth[month]), caller, all)
		if len(missing) == 0 {
			continue
		}
		ids := make([]uint, 0, len(missing))
		for _, a := range missing {
			ids = append(ids, a.ID)
		}
		result[month] = ids
	}
	return result, nil
}

func (s *missingReportService) MissingIDs(ctx context.Context, year string, month int) ([]uint, error) {
	missing, err := s.missing(ctx, year, month)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(missing))
	for _, a := range missing {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func (s *missingReportService) missing(ctx context.Context, year string, month int) ([]model.TeachingAssignment, error) {
	if err := academicyear.Validate(year); err != nil {
		return nil, ErrAcademicYearFormat
	}
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	assignments, err := s.repo.TeachingAssignment.List(ctx, repository.AssignmentFilter{Year: year})
	if err != nil {
		s.logger.Error("list assignments failed", zap.String("year", year), zap.Error(err))
		return nil, err
	}
	reports, err := s.repo.ProgressReport.List(ctx, repository.ReportFilter{Year: year, Month: month})
	if err != nil {
		s.logger.Error("list progress reports failed", zap.String("year", year), zap.Int("month", month), zap.Error(err))
		return nil, err
	}

	return resolveMissing(assignments, reports), nil
}

// resolveMissing drops every assignment covered by reports. A report covers its
// own assignment and every other assignment on the same (group, module) pair.
// The result is sorted by teacher name, module name, group name and id.
func resolveMissing(assignments []model.TeachingAssignment, reports []model.ProgressReport) []model.TeachingAssignment {
	filed := make(map[uint]struct{}, len(reports))
	covered := make(map[model.GroupModule]struct{}, len(reports))
	for _, r := range reports {
		filed[r.AssignmentID] = struct{}{}
		covered[model.GroupModule{GroupID: r.GroupID, ModuleID: r.ModuleID}] = struct{}{}
	}

	missing := make([]model.TeachingAssignment, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := filed[a.ID]; ok {
			continue
		}
		if _, ok := covered[a.Pair()]; ok {
			continue
		}
		missing = append(missing, a)
	}

	sort.SliceStable(missing, func(i, j int) bool {
		a, b := missing[i], missing[j]
		if ta, tb := teacherName(a), teacherName(b); ta != tb {
			return ta < tb
		}
		if ma, mb := moduleName(a), moduleName(b); ma != mb {
			return ma < mb
		}
		if ga, gb := groupName(a), groupName(b); ga != gb {
			return ga < gb
		}
		return a.ID < b.ID
	})
	return missing
}

func scopeToCaller(list []model.TeachingAssignment, caller Caller, all bool) []model.TeachingAssignment {
	if caller.IsAdmin && all {
		return list
	}
	own := list[:0:0]
	for _, a := range list {
		if a.TeacherID == caller.TeacherID {
			own = append(own, a)
		}
	}
	return own
}

func teacherName(a model.TeachingAssignment) string {
	if a.Teacher == nil {
		return ""
	}
	return a.Teacher.Name
}

func moduleName(a model.TeachingAssignment) string {
	if a.Module == nil {
		return ""
	}
	return a.Module.Name
}

func groupName(a model.TeachingAssignment) string {
	if a.Group == nil {
		return ""
	}
	return a.Group.Name
}
