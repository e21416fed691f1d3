package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"seguimientos/backend/config"
	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/pkg/mailer"
)

// recordingMailer captures messages and can fail for chosen recipients.
type recordingMailer struct {
	sent   []mailer.Message
	failTo map[string]bool
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.failTo[msg.To] {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type reminderFixture struct {
	store    *memStore
	mail     *recordingMailer
	settings []mailer.Settings
	svc      ReminderService

	ana, luis *model.Teacher
	a1, a2    *model.TeachingAssignment
	a3        *model.TeachingAssignment
}

func newReminderFixture(factoryErr error) *reminderFixture {
	s := newMemStore()
	s.addYear("2024-25", true)
	cycle := s.addCycle("DAM", "2024-25")
	groupA := s.addGroup("1DAM-A", cycle.ID)
	groupB := s.addGroup("1DAM-B", cycle.ID)
	prog := s.addModule("Programación", cycle.ID)
	bbdd := s.addModule("Bases de datos", cycle.ID)

	f := &reminderFixture{store: s, mail: &recordingMailer{failTo: map[string]bool{}}}
	f.ana = s.addTeacher("Ana", "ana@example.com", false)
	f.luis = s.addTeacher("Luis", "luis@example.com", false)
	f.a1 = s.addAssignment(f.ana.ID, groupA.ID, prog.ID)
	f.a2 = s.addAssignment(f.ana.ID, groupB.ID, bbdd.ID)
	f.a3 = s.addAssignment(f.luis.ID, groupA.ID, bbdd.ID)

	factory := func(st mailer.Settings) (mailer.Mailer, error) {
		f.settings = append(f.settings, st)
		if factoryErr != nil {
			return nil, factoryErr
		}
		return f.mail, nil
	}
	mailCfg := config.MailConfig{From: "jefatura@example.com", FromName: "Jefatura"}
	f.svc = NewReminderService(s.repo(), factory, mailCfg, "https://seguimientos.example.com", zap.NewNop())
	return f
}

func TestReminderService_Send_GroupsByTeacher(t *testing.T) {
	f := newReminderFixture(nil)

	resp, err := f.svc.Send(context.Background(), &dto.SendRemindersRequest{
		AssignmentIDs: []uint{f.a1.ID, f.a2.ID, f.a3.ID, f.a1.ID},
		Month:         3,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.EmailsSent != 2 || resp.TotalTeachers != 2 || resp.EmailsFailed != 0 {
		t.Errorf("unexpected counts: %+v", resp)
	}
	if resp.Status != "success" || resp.Detail != "sent 2 reminder emails" {
		t.Errorf("unexpected status/detail: %q %q", resp.Status, resp.Detail)
	}
	if len(resp.AssignmentsNotFound) != 0 || len(resp.InactiveTeachers) != 0 {
		t.Errorf("unexpected extras: %+v", resp)
	}

	if len(f.mail.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(f.mail.sent))
	}
	msg := f.mail.sent[0]
	if msg.To != "ana@example.com" {
		t.Fatalf("first recipient = %s, want ana", msg.To)
	}
	if msg.Subject != "Recordatorio de seguimiento pendiente - Marzo" {
		t.Errorf("subject = %q", msg.Subject)
	}
	for _, want := range []string{
		"Estimado/a Ana",
		"mes de Marzo",
		"- Programación para el grupo 1DAM-A\n- Bases de datos para el grupo 1DAM-B",
		"https://seguimientos.example.com",
	} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}

	if len(f.settings) != 1 {
		t.Fatalf("mailer built %d times, want 1", len(f.settings))
	}
	if st := f.settings[0]; st.From != "jefatura@example.com" || st.Provider != "console" {
		t.Errorf("unexpected mailer settings: %+v", st)
	}
}

func TestReminderService_Send_InactiveAndUnknown(t *testing.T) {
	f := newReminderFixture(nil)
	f.store.teachers[f.luis.ID].Active = false

	resp, err := f.svc.Send(context.Background(), &dto.SendRemindersRequest{
		AssignmentIDs: []uint{f.a1.ID, f.a3.ID, 9999},
		Month:         10,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.EmailsSent != 1 {
		t.Errorf("emails sent = %d, want 1", resp.EmailsSent)
	}
	if len(resp.InactiveTeachers) != 1 || resp.InactiveTeachers[0] != "luis@example.com" {
		t.Errorf("inactive = %v", resp.InactiveTeachers)
	}
	if len(resp.AssignmentsNotFound) != 1 || resp.AssignmentsNotFound[0] != 9999 {
		t.Errorf("not found = %v", resp.AssignmentsNotFound)
	}
}

func TestReminderService_Send_NothingFound(t *testing.T) {
	f := newReminderFixture(errors.New("must not be called"))

	resp, err := f.svc.Send(context.Background(), &dto.SendRemindersRequest{AssignmentIDs: []uint{77}, Month: 1})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.EmailsSent != 0 || resp.TotalTeachers != 0 {
		t.Errorf("unexpected counts: %+v", resp)
	}
	if len(f.settings) != 0 {
		t.Errorf("mailer should not be built without recipients")
	}
}

func TestReminderService_Send_Failures(t *testing.T) {
	f := newReminderFixture(nil)
	f.mail.failTo["ana@example.com"] = true

	resp, err := f.svc.Send(context.Background(), &dto.SendRemindersRequest{
		AssignmentIDs: []uint{f.a1.ID, f.a3.ID},
		Month:         5,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.EmailsSent != 1 || resp.EmailsFailed != 1 {
		t.Errorf("sent=%d failed=%d, want 1/1", resp.EmailsSent, resp.EmailsFailed)
	}

	// fail_silently swallows the failure count
	settings := model.DefaultEmailSettings()
	settings.FailSilently = true
	f.store.settings = &settings

	resp, err = f.svc.Send(context.Background(), &dto.SendRemindersRequest{
		AssignmentIDs: []uint{f.a1.ID, f.a3.ID},
		Month:         5,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.EmailsSent != 1 || resp.EmailsFailed != 0 {
		t.Errorf("fail silently: sent=%d failed=%d, want 1/0", resp.EmailsSent, resp.EmailsFailed)
	}
}

func TestReminderService_Send_MailerNotConfigured(t *testing.T) {
	f := newReminderFixture(mailer.ErrMissingHost)

	_, err := f.svc.Send(context.Background(), &dto.SendRemindersRequest{AssignmentIDs: []uint{f.a1.ID}, Month: 2})
	if !errors.Is(err, ErrEmailNotConfigured) {
		t.Fatalf("expected ErrEmailNotConfigured, got %v", err)
	}
}

func TestReminderService_Send_UsesStoredTemplate(t *testing.T) {
	f := newReminderFixture(nil)
	f.store.reminder = &model.ReminderEmailConfig{
		Singleton: true,
		Subject:   "Pendiente {{ .Month }}",
		Body:      "Hola {{ .TeacherName }}: {{ .Assignments }}",
	}

	if _, err := f.svc.Send(context.Background(), &dto.SendRemindersRequest{AssignmentIDs: []uint{f.a3.ID}, Month: 12}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("sent %d, want 1", len(f.mail.sent))
	}
	msg := f.mail.sent[0]
	if msg.Subject != "Pendiente Diciembre" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.Body != "Hola Luis: - Bases de datos para el grupo 1DAM-A" {
		t.Errorf("body = %q", msg.Body)
	}
}

func TestReminderService_Send_InvalidMonth(t *testing.T) {
	f := newReminderFixture(nil)

	if _, err := f.svc.Send(context.Background(), &dto.SendRemindersRequest{AssignmentIDs: []uint{f.a1.ID}, Month: 13}); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}
