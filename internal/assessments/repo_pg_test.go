package assessments

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateStoresTipAsNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	assessment := Assessment{
		ID:        "assessment-1",
		UserID:    "user-1",
		QuizScore: 100,
		Questions: []QuestionResult{
			{Question: "Q1", Answer: "A", UserAnswer: "A", IsCorrect: true, Explanation: "E"},
		},
		Category:  CategoryTechnical,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO assessments").
		WithArgs(
			assessment.ID,
			assessment.UserID,
			assessment.QuizScore,
			sqlmock.AnyArg(), // questions json
			assessment.Category,
			nil, // improvement_tip
			assessment.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), assessment); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateStoresTipValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	tip := "Review indexing strategies."
	assessment := Assessment{
		ID:             "assessment-2",
		UserID:         "user-1",
		QuizScore:      50,
		Category:       CategoryTechnical,
		ImprovementTip: &tip,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO assessments").
		WithArgs(
			assessment.ID,
			assessment.UserID,
			assessment.QuizScore,
			sqlmock.AnyArg(),
			assessment.Category,
			tip,
			assessment.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), assessment); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserOrdersAscending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	questions, _ := json.Marshal([]QuestionResult{
		{Question: "Q1", Answer: "A", UserAnswer: "B", IsCorrect: false, Explanation: "E"},
	})
	earlier := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	rows := sqlmock.NewRows([]string{"id", "user_id", "quiz_score", "questions", "category", "improvement_tip", "created_at"}).
		AddRow("a-1", "user-1", 25.0, questions, CategoryTechnical, "practice more", earlier).
		AddRow("a-2", "user-1", 75.0, questions, CategoryTechnical, nil, later)

	mock.ExpectQuery("SELECT id, user_id, quiz_score, questions, category, improvement_tip, created_at").
		WithArgs("user-1").
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 assessments, got %d", len(list))
	}
	if list[0].ID != "a-1" || list[1].ID != "a-2" {
		t.Fatalf("unexpected order: %s, %s", list[0].ID, list[1].ID)
	}
	if list[0].ImprovementTip == nil || *list[0].ImprovementTip != "practice more" {
		t.Fatalf("tip not scanned: %+v", list[0].ImprovementTip)
	}
	if list[1].ImprovementTip != nil {
		t.Fatalf("expected nil tip, got %q", *list[1].ImprovementTip)
	}
	if len(list[0].Questions) != 1 {
		t.Fatalf("questions not decoded: %+v", list[0].Questions)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
