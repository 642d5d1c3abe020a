package assessment

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehercare/clinic-api/internal/model"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
)

type fakeScorer struct {
	score     float64
	class     int
	err       error
	available bool
}

func (f *fakeScorer) Score(features []float64) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.score, nil
}

func (f *fakeScorer) Classify(features []float64) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.class, nil
}

func (f *fakeScorer) Available() bool { return f.available }

type fakeAssessmentRepo struct {
	created   []*model.RiskAssessment
	levels    []model.RiskLevel
	createErr error
}

func (f *fakeAssessmentRepo) CreateWithSnapshot(ctx context.Context, a *model.RiskAssessment, level model.RiskLevel) error {
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = int64(len(f.created) + 1)
	a.Timestamp = time.Now()
	f.created = append(f.created, a)
	f.levels = append(f.levels, level)
	return nil
}

func (f *fakeAssessmentRepo) Get(ctx context.Context, id int64) (*model.RiskAssessment, error) {
	for _, a := range f.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssessmentRepo) List(ctx context.Context, filters *model.AssessmentFilters) ([]*model.RiskAssessment, error) {
	if filters == nil || filters.PatientID == nil {
		return f.created, nil
	}
	var out []*model.RiskAssessment
	for _, a := range f.created {
		if a.PatientID == *filters.PatientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) Count(ctx context.Context) (int, error) { return len(f.created), nil }

func (f *fakeAssessmentRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	return 0, nil
}

func (f *fakeAssessmentRepo) CountByScoreAbove(ctx context.Context, threshold float64) (int, error) {
	return 0, nil
}

func (f *fakeAssessmentRepo) Distribution(ctx context.Context, mediumThreshold, highThreshold float64) (*model.RiskDistribution, error) {
	return &model.RiskDistribution{}, nil
}

func (f *fakeAssessmentRepo) TopByScoreAbove(ctx context.Context, threshold float64, limit int) ([]*model.RiskAssessment, error) {
	return nil, nil
}

type fakePatientRepo struct {
	patients map[int64]*model.Patient
}

func (f *fakePatientRepo) Get(ctx context.Context, id int64) (*model.Patient, error) {
	if p, ok := f.patients[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error  { return nil }
func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error  { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id int64) error          { return nil }
func (f *fakePatientRepo) List(ctx context.Context) ([]*model.Patient, error)  { return nil, nil }
func (f *fakePatientRepo) Count(ctx context.Context) (int, error)              { return 0, nil }
func (f *fakePatientRepo) CountAppointmentsOn(ctx context.Context, isoDate string) (int, error) {
	return 0, nil
}

type fakeOutbox struct {
	events    []*model.OutboxEvent
	createErr error
}

func (f *fakeOutbox) Create(ctx context.Context, event *model.OutboxEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) BeginTx(ctx context.Context) (*sql.Tx, error) { return nil, nil }

func (f *fakeOutbox) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	return nil
}

func (f *fakeOutbox) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeNotifier struct {
	notified []int64
	err      error
}

func (f *fakeNotifier) NotifyHighRisk(ctx context.Context, patient *model.Patient, assessment *model.RiskAssessment) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, patient.ID)
	return nil
}

func testPatient(id int64) *model.Patient {
	p := &model.Patient{
		Name:        "Jane Doe",
		Age:         30,
		Condition:   "Screening",
		Appointment: "2026-09-01 10:00",
		Contact:     "0700000000",
	}
	p.ID = id
	return p
}

func validFeatures() []float64 {
	return []float64{30, 2, 18, 12, 1, 0, 0, 0, 1}
}

func newTestService(repo *fakeAssessmentRepo, patients *fakePatientRepo, outbox *fakeOutbox, scorer *fakeScorer, notifier *fakeNotifier) *Service {
	var n Notifier
	if notifier != nil {
		n = notifier
	}
	return NewService(repo, patients, outbox, scorer, n, nil)
}

func TestAssessHighRisk(t *testing.T) {
	repo := &fakeAssessmentRepo{}
	patients := &fakePatientRepo{patients: map[int64]*model.Patient{7: testPatient(7)}}
	outbox := &fakeOutbox{}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, patients, outbox, &fakeScorer{score: 0.75, available: true}, notifier)

	got, err := svc.Assess(context.Background(), &model.AssessRequest{
		PatientID: 7,
		Features:  validFeatures(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.75, got.RiskScore)
	assert.Equal(t, ActionHigh, got.RecommendedAction)
	assert.Equal(t, int64(7), got.PatientID)
	assert.Equal(t, 30.0, got.Age)
	assert.True(t, got.HPVPositive)
	assert.False(t, got.Smoking)
	assert.True(t, got.Insurance)

	// Exactly one history row with the high tier attached.
	require.Len(t, repo.created, 1)
	require.Len(t, repo.levels, 1)
	assert.Equal(t, model.RiskLevelHigh, repo.levels[0])

	// An integration event is queued and the alert goes out.
	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventRiskAssessmentCreated, outbox.events[0].EventType)
	assert.Equal(t, []int64{7}, notifier.notified)
}

func TestAssessMediumRiskSkipsAlert(t *testing.T) {
	repo := &fakeAssessmentRepo{}
	patients := &fakePatientRepo{patients: map[int64]*model.Patient{7: testPatient(7)}}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, patients, &fakeOutbox{}, &fakeScorer{score: 0.5, available: true}, notifier)

	got, err := svc.Assess(context.Background(), &model.AssessRequest{
		PatientID: 7,
		Features:  validFeatures(),
	})
	require.NoError(t, err)

	assert.Equal(t, ActionMedium, got.RecommendedAction)
	assert.Equal(t, model.RiskLevelMedium, repo.levels[0])
	assert.Empty(t, notifier.notified)
}

func TestAssessRejectsWrongFeatureCount(t *testing.T) {
	repo := &fakeAssessmentRepo{}
	patients := &fakePatientRepo{patients: map[int64]*model.Patient{7: testPatient(7)}}
	svc := newTestService(repo, patients, &fakeOutbox{}, &fakeScorer{score: 0.5, available: true}, nil)

	_, err := svc.Assess(context.Background(), &model.AssessRequest{
		PatientID: 7,
		Features:  []float64{1, 2, 3},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	assert.Empty(t, repo.created)
}

func TestAssessUnknownPatient(t *testing.T) {
	repo := &fakeAssessmentRepo{}
	svc := newTestService(repo, &fakePatientRepo{patients: map[int64]*model.Patient{}}, &fakeOutbox{},
		&fakeScorer{score: 0.5, available: true}, nil)

	_, err := svc.Assess(context.Background(), &model.AssessRequest{
		PatientID: 99,
		Features:  validFeatures(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	assert.Empty(t, repo.created)
}

func TestAssessModelUnavailable(t *testing.T) {
	repo := &fakeAssessmentRepo{}
	patients := &fakePatientRepo{patients: map[int64]*model.Patient{7: testPatient(7)}}
	scorer := &fakeScorer{err: apperrors.NewModelUnavailable(fmt.Errorf("artifact missing"))}
	outbox := &fakeOutbox{}
	svc := newTestService(repo, patients, outbox, scorer, nil)

	_, err := svc.Assess(context.Background(), &model.AssessRequest{
		PatientID: 7,
		Features:  validFeatures(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrModelUnavailable))

	// Nothing persisted, nothing queued.
	assert.Empty(t, repo.created)
	assert.Empty(t, outbox.events)
}

func TestAssessPersistenceFailure(t *testing.T) {
	repo := &fakeAssessmentRepo{createErr: fmt.Errorf("connection reset")}
	patients := &fakePatientRepo{patients: map[int64]*model.Patient{7: testPatient(7)}}
	outbox := &fakeOutbox{}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, patients, outbox, &fakeScorer{score: 0.9, available: true}, notifier)

	_, err := svc.Assess(context.Background(), &model.AssessRequest{
		PatientID: 7,
		Features:  validFeatures(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPersistence))

	// A failed write must not leak an event or an alert.
	assert.Empty(t, outbox.events)
	assert.Empty(t, notifier.notified)
}

func TestAssessSurvivesOutboxFailure(t *testing.T) {
	repo := &fakeAssessmentRepo{}
	patients := &fakePatientRepo{patients: map[int64]*model.Patient{7: testPatient(7)}}
	outbox := &fakeOutbox{createErr: fmt.Errorf("outbox full")}
	svc := newTestService(repo, patients, outbox, &fakeScorer{score: 0.2, available: true}, nil)

	got, err := svc.Assess(context.Background(), &model.AssessRequest{
		PatientID: 7,
		Features:  validFeatures(),
	})
	require.NoError(t, err)
	assert.Equal(t, ActionLow, got.RecommendedAction)
	require.Len(t, repo.created, 1)
}

func TestQuickPredict(t *testing.T) {
	svc := newTestService(&fakeAssessmentRepo{}, &fakePatientRepo{}, &fakeOutbox{},
		&fakeScorer{class: 1, available: true}, nil)

	got, err := svc.QuickPredict(context.Background(), &model.PredictRequest{Features: validFeatures()})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Prediction)
	assert.Equal(t, "PAP SMEAR", got.RecommendedAction)

	_, err = svc.QuickPredict(context.Background(), &model.PredictRequest{Features: []float64{1}})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestQuickPredictPatient(t *testing.T) {
	patient := testPatient(4)
	partners, firstAge := 3, 19
	hpv := true
	patient.SexualPartners = &partners
	patient.FirstSexualAge = &firstAge
	patient.HPVPositive = &hpv

	svc := newTestService(&fakeAssessmentRepo{},
		&fakePatientRepo{patients: map[int64]*model.Patient{4: patient}},
		&fakeOutbox{}, &fakeScorer{class: 2, available: true}, nil)

	got, err := svc.QuickPredictPatient(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "HPV DNA", got.RecommendedAction)

	_, err = svc.QuickPredictPatient(context.Background(), 404)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestFeaturesFromPatient(t *testing.T) {
	patient := testPatient(1)
	partners, firstAge := 2, 18
	hpv, insured := true, true
	patient.SexualPartners = &partners
	patient.FirstSexualAge = &firstAge
	patient.HPVPositive = &hpv
	patient.Insurance = &insured

	got := FeaturesFromPatient(patient)
	assert.Equal(t, []float64{30, 2, 18, 12, 1, 0, 0, 0, 1}, got)
}

func TestFeaturesFromPatientMissingAttributes(t *testing.T) {
	patient := testPatient(1)
	got := FeaturesFromPatient(patient)

	// Only age is known; everything else defaults to zero.
	assert.Equal(t, []float64{30, 0, 0, 0, 0, 0, 0, 0, 0}, got)
	assert.Len(t, got, model.FeatureCount)
}

func TestGetAndList(t *testing.T) {
	repo := &fakeAssessmentRepo{}
	patients := &fakePatientRepo{patients: map[int64]*model.Patient{7: testPatient(7), 8: testPatient(8)}}
	svc := newTestService(repo, patients, &fakeOutbox{}, &fakeScorer{score: 0.3, available: true}, nil)

	for _, id := range []int64{7, 7, 8} {
		_, err := svc.Assess(context.Background(), &model.AssessRequest{PatientID: id, Features: validFeatures()})
		require.NoError(t, err)
	}

	got, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.PatientID)

	_, err = svc.Get(context.Background(), 42)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	pid := int64(7)
	rows, err := svc.List(context.Background(), &model.AssessmentFilters{PatientID: &pid})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
