package service

import (
	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
)

// Model to DTO mapping shared by several services.

func toCycleResponse(c *model.Cycle) *dto.CycleResponse {
	if c == nil {
		return nil
	}
	return &dto.CycleResponse{ID: c.ID, Name: c.Name, AcademicYear: c.AcademicYear}
}

func toGroupResponse(g *model.Group) *dto.GroupResponse {
	return &dto.GroupResponse{
		ID:      g.ID,
		Name:    g.Name,
		Course:  g.Course,
		CycleID: g.CycleID,
		Cycle:   toCycleResponse(g.Cycle),
	}
}

func toModuleResponse(m *model.Module) *dto.ModuleResponse {
	return &dto.ModuleResponse{
		ID:      m.ID,
		Name:    m.Name,
		Course:  m.Course,
		CycleID: m.CycleID,
		Cycle:   toCycleResponse(m.Cycle),
	}
}

func toWorkUnitResponse(u *model.WorkUnit) dto.WorkUnitResponse {
	return dto.WorkUnitResponse{
		ID:         u.ID,
		ModuleID:   u.ModuleID,
		UnitNumber: u.UnitNumber,
		Title:      u.Title,
		Covered:    u.Covered,
	}
}

func toTeacherResponse(t *model.Teacher) dto.TeacherResponse {
	resp := dto.TeacherResponse{
		ID:      t.ID,
		Email:   t.Email,
		Name:    t.Name,
		Active:  t.Active,
		IsAdmin: t.IsAdmin,
	}
	if t.LastLogin != nil {
		resp.LastLogin = dto.FormatTime(*t.LastLogin)
	}
	return resp
}

func toAssignmentResponse(a *model.TeachingAssignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:        a.ID,
		TeacherID: a.TeacherID,
		GroupID:   a.GroupID,
		ModuleID:  a.ModuleID,
	}
	if a.Teacher != nil {
		resp.TeacherName = a.Teacher.Name
		resp.TeacherEmail = a.Teacher.Email
	}
	if a.Group != nil {
		resp.GroupName = a.Group.Name
	}
	if a.Module != nil {
		resp.ModuleName = a.Module.Name
		if a.Module.Cycle != nil {
			resp.AcademicYear = a.Module.Cycle.AcademicYear
		}
	}
	return resp
}

func toReportResponse(r *model.ProgressReport) *dto.ProgressReportResponse {
	resp := &dto.ProgressReportResponse{
		ID:                         r.ID,
		AssignmentID:               r.AssignmentID,
		Month:                      r.Month,
		CompletedUnits:             make([]dto.WorkUnitResponse, 0, len(r.CompletedUnits)),
		LastContentTaught:          r.LastContentTaught,
		Status:                     r.Status,
		StatusJustification:        r.StatusJustification,
		Compliance:                 r.Compliance,
		NoncomplianceJustification: r.NoncomplianceJustification,
		NoncomplianceReason:        r.NoncomplianceReason,
		Evaluation:                 r.Evaluation,
		CreatedAt:                  dto.FormatTime(r.CreatedAt),
		UpdatedAt:                  dto.FormatTime(r.UpdatedAt),
	}
	if r.Assignment != nil {
		a := toAssignmentResponse(r.Assignment)
		resp.Assignment = &a
	}
	if r.CurrentUnit != nil {
		resp.CurrentUnit = toWorkUnitResponse(r.CurrentUnit)
	} else {
		resp.CurrentUnit = dto.WorkUnitResponse{ID: r.CurrentUnitID}
	}
	for i := range r.CompletedUnits {
		resp.CompletedUnits = append(resp.CompletedUnits, toWorkUnitResponse(&r.CompletedUnits[i]))
	}
	return resp
}
