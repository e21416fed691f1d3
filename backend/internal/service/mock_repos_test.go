package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
)

// memStore backs every mock repository so relations resolve the way
// preloads do against the real database.
type memStore struct {
	years       map[string]*model.AcademicYear
	cycles      map[uint]*model.Cycle
	groups      map[uint]*model.Group
	modules     map[uint]*model.Module
	units       map[uint]*model.WorkUnit
	teachers    map[uint]*model.Teacher
	assignments map[uint]*model.TeachingAssignment
	reports     map[uint]*model.ProgressReport
	completed   map[uint][]uint
	reminder    *model.ReminderEmailConfig
	settings    *model.EmailSettings
	nextID      uint
}

func newMemStore() *memStore {
	return &memStore{
		years:       make(map[string]*model.AcademicYear),
		cycles:      make(map[uint]*model.Cycle),
		groups:      make(map[uint]*model.Group),
		modules:     make(map[uint]*model.Module),
		units:       make(map[uint]*model.WorkUnit),
		teachers:    make(map[uint]*model.Teacher),
		assignments: make(map[uint]*model.TeachingAssignment),
		reports:     make(map[uint]*model.ProgressReport),
		completed:   make(map[uint][]uint),
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

// repo builds a Repository aggregate over the store. Transactions run inline.
func (s *memStore) repo() *repository.Repository {
	return &repository.Repository{
		AcademicYear:        &mockAcademicYearRepo{s},
		Cycle:               &mockCycleRepo{s},
		Group:               &mockGroupRepo{s},
		Module:              &mockModuleRepo{s},
		WorkUnit:            &mockWorkUnitRepo{s},
		Teacher:             &mockTeacherRepo{s},
		TeachingAssignment:  &mockAssignmentRepo{s},
		ProgressReport:      &mockReportRepo{s},
		ReminderEmailConfig: &mockReminderConfigRepo{s},
		EmailSettings:       &mockEmailSettingsRepo{s},
	}
}

// ── seeding helpers ──

func (s *memStore) addYear(year string, current bool) {
	s.years[year] = &model.AcademicYear{Year: year, Current: current}
}

func (s *memStore) addCycle(name, year string) *model.Cycle {
	c := &model.Cycle{ID: s.id(), Name: name, AcademicYear: year}
	s.cycles[c.ID] = c
	return c
}

func (s *memStore) addGroup(name string, cycleID uint) *model.Group {
	g := &model.Group{ID: s.id(), Name: name, CycleID: cycleID, Course: 1}
	s.groups[g.ID] = g
	return g
}

func (s *memStore) addModule(name string, cycleID uint) *model.Module {
	m := &model.Module{ID: s.id(), Name: name, CycleID: cycleID, Course: 1}
	s.modules[m.ID] = m
	return m
}

func (s *memStore) addUnit(moduleID uint, number int) *model.WorkUnit {
	u := &model.WorkUnit{ID: s.id(), ModuleID: moduleID, UnitNumber: number, Title: "UT"}
	s.units[u.ID] = u
	return u
}

func (s *memStore) addTeacher(name, email string, admin bool) *model.Teacher {
	t := &model.Teacher{ID: s.id(), Name: name, Email: email, Active: true, IsAdmin: admin}
	s.teachers[t.ID] = t
	return t
}

func (s *memStore) addAssignment(teacherID, groupID, moduleID uint) *model.TeachingAssignment {
	a := &model.TeachingAssignment{ID: s.id(), TeacherID: teacherID, GroupID: groupID, ModuleID: moduleID}
	s.assignments[a.ID] = a
	return a
}

func (s *memStore) addReport(a *model.TeachingAssignment, month int, unitID uint) *model.ProgressReport {
	r := &model.ProgressReport{
		ID: s.id(), AssignmentID: a.ID, GroupID: a.GroupID, ModuleID: a.ModuleID,
		Month: month, CurrentUnitID: unitID, LastContentTaught: "x",
		Status: model.StatusOnTime, Compliance: true, Evaluation: model.EvaluationFirst,
	}
	s.reports[r.ID] = r
	return r
}

// ── relation helpers ──

func (s *memStore) cycleCopy(id uint) *model.Cycle {
	if c, ok := s.cycles[id]; ok {
		cp := *c
		return &cp
	}
	return nil
}

func (s *memStore) moduleYear(moduleID uint) string {
	if m, ok := s.modules[moduleID]; ok {
		if c, ok := s.cycles[m.CycleID]; ok {
			return c.AcademicYear
		}
	}
	return ""
}

func (s *memStore) loadAssignment(a *model.TeachingAssignment) model.TeachingAssignment {
	cp := *a
	if t, ok := s.teachers[a.TeacherID]; ok {
		tc := *t
		cp.Teacher = &tc
	}
	if g, ok := s.groups[a.GroupID]; ok {
		gc := *g
		gc.Cycle = s.cycleCopy(g.CycleID)
		cp.Group = &gc
	}
	if m, ok := s.modules[a.ModuleID]; ok {
		mc := *m
		mc.Cycle = s.cycleCopy(m.CycleID)
		cp.Module = &mc
	}
	return cp
}

func (s *memStore) loadReport(r *model.ProgressReport) model.ProgressReport {
	cp := *r
	if a, ok := s.assignments[r.AssignmentID]; ok {
		la := s.loadAssignment(a)
		cp.Assignment = &la
	}
	if u, ok := s.units[r.CurrentUnitID]; ok {
		uc := *u
		cp.CurrentUnit = &uc
	}
	cp.CompletedUnits = nil
	for _, id := range s.completed[r.ID] {
		if u, ok := s.units[id]; ok {
			cp.CompletedUnits = append(cp.CompletedUnits, *u)
		}
	}
	return cp
}

func (s *memStore) teaches(teacherID uint, pair model.GroupModule) bool {
	for _, a := range s.assignments {
		if a.TeacherID == teacherID && a.Pair() == pair {
			return true
		}
	}
	return false
}

func sortedKeys[T any](m map[uint]T) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ── Mock AcademicYearRepository ──

type mockAcademicYearRepo struct{ s *memStore }

func (m *mockAcademicYearRepo) Create(_ context.Context, y *model.AcademicYear) error {
	cp := *y
	m.s.years[y.Year] = &cp
	return nil
}

func (m *mockAcademicYearRepo) GetByYear(_ context.Context, year string) (*model.AcademicYear, error) {
	if y, ok := m.s.years[year]; ok {
		cp := *y
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) GetCurrent(_ context.Context) (*model.AcademicYear, error) {
	for _, y := range m.s.years {
		if y.Current {
			cp := *y
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) GetLatest(_ context.Context) (*model.AcademicYear, error) {
	var latest *model.AcademicYear
	for _, y := range m.s.years {
		if latest == nil || y.Year > latest.Year {
			latest = y
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *mockAcademicYearRepo) List(_ context.Context) ([]model.AcademicYear, error) {
	result := make([]model.AcademicYear, 0, len(m.s.years))
	for _, y := range m.s.years {
		result = append(result, *y)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year > result[j].Year })
	return result, nil
}

func (m *mockAcademicYearRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.years)), nil
}

func (m *mockAcademicYearRepo) ClearCurrent(_ context.Context) error {
	for _, y := range m.s.years {
		y.Current = false
	}
	return nil
}

func (m *mockAcademicYearRepo) SetCurrent(_ context.Context, year string) error {
	y, ok := m.s.years[year]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	y.Current = true
	return nil
}

func (m *mockAcademicYearRepo) Delete(_ context.Context, year string) error {
	if _, ok := m.s.years[year]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.years, year)
	return nil
}

// ── Mock curriculum repositories ──

type mockCycleRepo struct{ s *memStore }

func (m *mockCycleRepo) Create(_ context.Context, c *model.Cycle) error {
	c.ID = m.s.id()
	cp := *c
	m.s.cycles[c.ID] = &cp
	return nil
}

func (m *mockCycleRepo) GetByID(_ context.Context, id uint) (*model.Cycle, error) {
	if c := m.s.cycleCopy(id); c != nil {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) List(_ context.Context, year string) ([]model.Cycle, error) {
	var result []model.Cycle
	for _, id := range sortedKeys(m.s.cycles) {
		if c := m.s.cycles[id]; year == "" || c.AcademicYear == year {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCycleRepo) Update(_ context.Context, c *model.Cycle) error {
	cp := *c
	m.s.cycles[c.ID] = &cp
	return nil
}

func (m *mockCycleRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.s.cycles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.cycles, id)
	return nil
}

type mockGroupRepo struct{ s *memStore }

func (m *mockGroupRepo) Create(_ context.Context, g *model.Group) error {
	g.ID = m.s.id()
	cp := *g
	cp.Cycle = nil
	m.s.groups[g.ID] = &cp
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id uint) (*model.Group, error) {
	g, ok := m.s.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	cp.Cycle = m.s.cycleCopy(g.CycleID)
	return &cp, nil
}

func (m *mockGroupRepo) List(_ context.Context, f repository.CurriculumFilter) ([]model.Group, error) {
	var result []model.Group
	for _, id := range sortedKeys(m.s.groups) {
		g := m.s.groups[id]
		if f.CycleID != 0 && g.CycleID != f.CycleID {
			continue
		}
		if f.Year != "" {
			if c, ok := m.s.cycles[g.CycleID]; !ok || c.AcademicYear != f.Year {
				continue
			}
		}
		result = append(result, *g)
	}
	return result, nil
}

func (m *mockGroupRepo) Update(_ context.Context, g *model.Group) error {
	cp := *g
	cp.Cycle = nil
	m.s.groups[g.ID] = &cp
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.s.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.groups, id)
	return nil
}

type mockModuleRepo struct{ s *memStore }

func (m *mockModuleRepo) Create(_ context.Context, mod *model.Module) error {
	mod.ID = m.s.id()
	cp := *mod
	cp.Cycle = nil
	m.s.modules[mod.ID] = &cp
	return nil
}

func (m *mockModuleRepo) GetByID(_ context.Context, id uint) (*model.Module, error) {
	mod, ok := m.s.modules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *mod
	cp.Cycle = m.s.cycleCopy(mod.CycleID)
	return &cp, nil
}

func (m *mockModuleRepo) List(_ context.Context, f repository.CurriculumFilter) ([]model.Module, error) {
	var result []model.Module
	for _, id := range sortedKeys(m.s.modules) {
		mod := m.s.modules[id]
		if f.CycleID != 0 && mod.CycleID != f.CycleID {
			continue
		}
		if f.Year != "" && m.s.moduleYear(mod.ID) != f.Year {
			continue
		}
		result = append(result, *mod)
	}
	return result, nil
}

func (m *mockModuleRepo) Update(_ context.Context, mod *model.Module) error {
	cp := *mod
	cp.Cycle = nil
	m.s.modules[mod.ID] = &cp
	return nil
}

func (m *mockModuleRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.s.modules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.modules, id)
	return nil
}

type mockWorkUnitRepo struct{ s *memStore }

// errUniqueViolation is what the pgx driver returns for a duplicate key.
var errUniqueViolation = &pgconn.PgError{Code: "23505", ConstraintName: "work_units_module_id_unit_number_key"}

func (m *mockWorkUnitRepo) taken(u *model.WorkUnit) bool {
	for _, other := range m.s.units {
		if other.ID != u.ID && other.ModuleID == u.ModuleID && other.UnitNumber == u.UnitNumber {
			return true
		}
	}
	return false
}

func (m *mockWorkUnitRepo) Create(_ context.Context, u *model.WorkUnit) error {
	if m.taken(u) {
		return errUniqueViolation
	}
	u.ID = m.s.id()
	cp := *u
	m.s.units[u.ID] = &cp
	return nil
}

func (m *mockWorkUnitRepo) GetByID(_ context.Context, id uint) (*model.WorkUnit, error) {
	if u, ok := m.s.units[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkUnitRepo) ListByModule(_ context.Context, moduleID uint) ([]model.WorkUnit, error) {
	var result []model.WorkUnit
	for _, u := range m.s.units {
		if u.ModuleID == moduleID {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UnitNumber < result[j].UnitNumber })
	return result, nil
}

func (m *mockWorkUnitRepo) ListByIDs(_ context.Context, ids []uint) ([]model.WorkUnit, error) {
	var result []model.WorkUnit
	for _, id := range ids {
		if u, ok := m.s.units[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockWorkUnitRepo) Update(_ context.Context, u *model.WorkUnit) error {
	if m.taken(u) {
		return errUniqueViolation
	}
	cp := *u
	m.s.units[u.ID] = &cp
	return nil
}

func (m *mockWorkUnitRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.s.units[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.units, id)
	return nil
}

func (m *mockWorkUnitRepo) ResetCoverage(_ context.Context, moduleID uint, upTo int) error {
	for _, u := range m.s.units {
		if u.ModuleID == moduleID {
			u.Covered = u.UnitNumber <= upTo
		}
	}
	return nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct{ s *memStore }

func (m *mockTeacherRepo) Create(_ context.Context, t *model.Teacher) error {
	if err := t.BeforeSave(nil); err != nil {
		return err
	}
	t.ID = m.s.id()
	cp := *t
	m.s.teachers[t.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id uint) (*model.Teacher, error) {
	if t, ok := m.s.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByEmail(_ context.Context, email string) (*model.Teacher, error) {
	for _, t := range m.s.teachers {
		if strings.EqualFold(t.Email, email) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(_ context.Context, offset, limit int) ([]model.Teacher, int64, error) {
	var all []model.Teacher
	for _, id := range sortedKeys(m.s.teachers) {
		all = append(all, *m.s.teachers[id])
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockTeacherRepo) Update(_ context.Context, t *model.Teacher) error {
	stored, ok := m.s.teachers[t.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *t
	cp.Password = stored.Password
	m.s.teachers[t.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) UpdatePassword(_ context.Context, id uint, password string) error {
	t, ok := m.s.teachers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Password = password
	return t.BeforeSave(nil)
}

func (m *mockTeacherRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	if t, ok := m.s.teachers[id]; ok {
		t.LastLogin = &at
	}
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.s.teachers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.teachers, id)
	return nil
}

// ── Mock TeachingAssignmentRepository ──

type mockAssignmentRepo struct{ s *memStore }

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.TeachingAssignment) error {
	a.ID = m.s.id()
	cp := *a
	cp.Teacher, cp.Group, cp.Module = nil, nil, nil
	m.s.assignments[a.ID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id uint) (*model.TeachingAssignment, error) {
	a, ok := m.s.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	la := m.s.loadAssignment(a)
	return &la, nil
}

func (m *mockAssignmentRepo) List(_ context.Context, f repository.AssignmentFilter) ([]model.TeachingAssignment, error) {
	var result []model.TeachingAssignment
	for _, id := range sortedKeys(m.s.assignments) {
		a := m.s.assignments[id]
		if f.TeacherID != 0 && a.TeacherID != f.TeacherID {
			continue
		}
		if f.Year != "" && m.s.moduleYear(a.ModuleID) != f.Year {
			continue
		}
		result = append(result, m.s.loadAssignment(a))
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByIDs(_ context.Context, ids []uint) ([]model.TeachingAssignment, error) {
	var result []model.TeachingAssignment
	for _, id := range ids {
		if a, ok := m.s.assignments[id]; ok {
			result = append(result, m.s.loadAssignment(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.s.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) Exists(_ context.Context, teacherID, groupID, moduleID uint) (bool, error) {
	for _, a := range m.s.assignments {
		if a.TeacherID == teacherID && a.GroupID == groupID && a.ModuleID == moduleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) TeachesPair(_ context.Context, teacherID uint, pair model.GroupModule) (bool, error) {
	return m.s.teaches(teacherID, pair), nil
}

func (m *mockAssignmentRepo) LockPair(context.Context, model.GroupModule) error { return nil }

// ── Mock ProgressReportRepository ──

type mockReportRepo struct{ s *memStore }

func (m *mockReportRepo) Create(_ context.Context, r *model.ProgressReport) error {
	r.ID = m.s.id()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	cp.Assignment, cp.CurrentUnit, cp.CompletedUnits = nil, nil, nil
	m.s.reports[r.ID] = &cp
	return nil
}

func (m *mockReportRepo) GetByID(_ context.Context, id uint) (*model.ProgressReport, error) {
	r, ok := m.s.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	lr := m.s.loadReport(r)
	return &lr, nil
}

func (m *mockReportRepo) List(_ context.Context, f repository.ReportFilter) ([]model.ProgressReport, error) {
	var result []model.ProgressReport
	for _, id := range sortedKeys(m.s.reports) {
		r := m.s.reports[id]
		if f.Month != 0 && r.Month != f.Month {
			continue
		}
		if f.Year != "" && m.s.moduleYear(r.ModuleID) != f.Year {
			continue
		}
		if f.VisibleTo != 0 && !m.s.teaches(f.VisibleTo, model.GroupModule{GroupID: r.GroupID, ModuleID: r.ModuleID}) {
			continue
		}
		result = append(result, m.s.loadReport(r))
	}
	return result, nil
}

func (m *mockReportRepo) Update(_ context.Context, r *model.ProgressReport) error {
	if _, ok := m.s.reports[r.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *r
	cp.Assignment, cp.CurrentUnit, cp.CompletedUnits = nil, nil, nil
	m.s.reports[r.ID] = &cp
	return nil
}

func (m *mockReportRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.s.reports[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.reports, id)
	delete(m.s.completed, id)
	return nil
}

func (m *mockReportRepo) ExistsForPair(_ context.Context, pair model.GroupModule, month int, excludeID uint) (bool, error) {
	for _, r := range m.s.reports {
		if r.ID != excludeID && r.GroupID == pair.GroupID && r.ModuleID == pair.ModuleID && r.Month == month {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReportRepo) ReplaceCompletedUnits(_ context.Context, reportID uint, unitIDs []uint) error {
	m.s.completed[reportID] = append([]uint(nil), unitIDs...)
	return nil
}

// ── Mock email configuration repositories ──

type mockReminderConfigRepo struct{ s *memStore }

func (m *mockReminderConfigRepo) Get(_ context.Context) (*model.ReminderEmailConfig, error) {
	if m.s.reminder == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.s.reminder
	return &cp, nil
}

func (m *mockReminderConfigRepo) Save(_ context.Context, cfg *model.ReminderEmailConfig) error {
	cfg.Singleton = true
	cfg.UpdatedAt = time.Now()
	cp := *cfg
	m.s.reminder = &cp
	return nil
}

type mockEmailSettingsRepo struct{ s *memStore }

func (m *mockEmailSettingsRepo) Get(_ context.Context) (*model.EmailSettings, error) {
	if m.s.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.s.settings
	return &cp, nil
}

func (m *mockEmailSettingsRepo) Save(_ context.Context, e *model.EmailSettings) error {
	e.Singleton = true
	e.UpdatedAt = time.Now()
	cp := *e
	m.s.settings = &cp
	return nil
}
