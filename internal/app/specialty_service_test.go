package app

import (
	"context"
	"testing"

	"admissions/internal/common"
	"admissions/internal/domain/exam"
)

func TestSpecialtyServiceCreate_UniqueNameOrCode(t *testing.T) {
	store := newFakeStore()
	service := NewSpecialtyService(store)

	created, err := service.Create(context.Background(), specialtyFixture("Informatika", "IF-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected specialty id")
	}
	if _, err := service.Create(context.Background(), specialtyFixture("Informatika", "IF-02")); !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict on duplicate name, got %v", err)
	}
	if _, err := service.Create(context.Background(), specialtyFixture("Sistem Informasi", "IF-01")); !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict on duplicate code, got %v", err)
	}
	if _, err := service.Create(context.Background(), specialtyFixture("", "IF-03")); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
}

func TestSpecialtyServiceUpdate_WhitelistNoAudit(t *testing.T) {
	store := newFakeStore()
	service := NewSpecialtyService(store)

	created, err := service.Create(context.Background(), specialtyFixture("Informatika", "IF-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	updated, err := service.Update(context.Background(), created.ID, map[string]any{"faculty": "FTI"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Faculty != "FTI" {
		t.Fatalf("expected faculty FTI, got %s", updated.Faculty)
	}
	if _, err := service.Update(context.Background(), created.ID, map[string]any{"id": 5}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.auditLogs.entries) != 0 {
		t.Fatalf("specialty updates must not be audited, got %d entries", len(store.auditLogs.entries))
	}
}

func TestSpecialtyServiceDelete_BlockedByLinks(t *testing.T) {
	store := newFakeStore()
	service := NewSpecialtyService(store)

	created, err := service.Create(context.Background(), specialtyFixture("Informatika", "IF-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	store.specialties.applicantLinkCount = 1
	if err := service.Delete(context.Background(), created.ID); !common.Is(err, common.CodePrecondition) {
		t.Fatalf("expected precondition error for applicant links, got %v", err)
	}
	store.specialties.applicantLinkCount = 0

	e, err := store.exams.Create(context.Background(), exam.Exam{Name: "Matematika", Type: exam.TypeUTBK})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := service.AddExam(context.Background(), created.ID, e.ID, nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := service.Delete(context.Background(), created.ID); !common.Is(err, common.CodePrecondition) {
		t.Fatalf("expected precondition error for exam links, got %v", err)
	}

	if err := service.RemoveExam(context.Background(), created.ID, e.ID); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := service.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
}

func TestSpecialtyServiceAddExam_BothMustExist(t *testing.T) {
	store := newFakeStore()
	service := NewSpecialtyService(store)

	created, err := service.Create(context.Background(), specialtyFixture("Informatika", "IF-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := service.AddExam(context.Background(), created.ID, 999, nil); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for missing exam, got %v", err)
	}
	if err := service.AddExam(context.Background(), 999, 1, nil); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for missing specialty, got %v", err)
	}
}

func TestExamServiceCreate_UniquePerNameAndType(t *testing.T) {
	store := newFakeStore()
	service := NewExamService(store)

	created, err := service.Create(context.Background(), exam.Exam{Name: "Matematika", Type: "UTBK"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Type != exam.TypeUTBK {
		t.Fatalf("expected normalized type utbk, got %s", created.Type)
	}
	if _, err := service.Create(context.Background(), exam.Exam{Name: "Matematika", Type: "utbk"}); !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	// Same name under a different type is a different exam.
	if _, err := service.Create(context.Background(), exam.Exam{Name: "Matematika", Type: "tes_mandiri"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := service.Create(context.Background(), exam.Exam{Name: "Fisika", Type: "practical"}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
}

func TestExamServiceUpdate_MinScoreMustBeWhole(t *testing.T) {
	store := newFakeStore()
	service := NewExamService(store)

	created, err := service.Create(context.Background(), exam.Exam{Name: "Matematika", Type: "utbk"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	updated, err := service.Update(context.Background(), created.ID, map[string]any{"min_score": float64(60)})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.MinScore == nil || *updated.MinScore != 60 {
		t.Fatalf("expected min_score 60, got %v", updated.MinScore)
	}
	if _, err := service.Update(context.Background(), created.ID, map[string]any{"min_score": 60.5}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for fractional score, got %v", err)
	}
}

func TestExamServiceDelete_BlockedBySpecialtyLinks(t *testing.T) {
	store := newFakeStore()
	service := NewExamService(store)

	created, err := service.Create(context.Background(), exam.Exam{Name: "Matematika", Type: "utbk"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	store.exams.linkCount = 2
	if err := service.Delete(context.Background(), created.ID); !common.Is(err, common.CodePrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	store.exams.linkCount = 0
	if err := service.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
}
