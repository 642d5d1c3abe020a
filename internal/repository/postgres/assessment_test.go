package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehercare/clinic-api/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func sampleAssessment() *model.RiskAssessment {
	return &model.RiskAssessment{
		PatientID:           1,
		Age:                 30,
		SexualPartners:      2,
		FirstSexualAge:      18,
		YearsSexuallyActive: 12,
		HPVPositive:         true,
		Insurance:           true,
		RiskScore:           0.82,
		RecommendedAction:   "Immediate follow-up and HPV DNA test",
	}
}

func TestCreateWithSnapshotCommitsBothWrites(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE patients").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO risk_assessments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(7, time.Now()))
	mock.ExpectCommit()

	a := sampleAssessment()
	require.NoError(t, repo.CreateWithSnapshot(context.Background(), a, model.RiskLevelHigh))
	assert.EqualValues(t, 7, a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed history insert must roll back the snapshot update; the pair
// commits together or not at all.
func TestCreateWithSnapshotRollsBackWhenHistoryInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE patients").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO risk_assessments").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	err := repo.CreateWithSnapshot(context.Background(), sampleAssessment(), model.RiskLevelHigh)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithSnapshotRollsBackWhenSnapshotUpdateFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE patients").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.CreateWithSnapshot(context.Background(), sampleAssessment(), model.RiskLevelHigh)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
