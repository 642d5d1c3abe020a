package chatbot

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehercare/clinic-api/internal/model"
)

type fakePatients struct {
	patients []*model.Patient
}

func (f *fakePatients) Create(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatients) Get(ctx context.Context, id int64) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}
func (f *fakePatients) Update(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatients) Delete(ctx context.Context, id int64) error         { return nil }
func (f *fakePatients) List(ctx context.Context) ([]*model.Patient, error) {
	return f.patients, nil
}
func (f *fakePatients) Count(ctx context.Context) (int, error) { return len(f.patients), nil }
func (f *fakePatients) CountAppointmentsOn(ctx context.Context, isoDate string) (int, error) {
	return 0, nil
}

type fakeAssessments struct {
	dist  *model.RiskDistribution
	top   []*model.RiskAssessment
	today int
}

func (f *fakeAssessments) CreateWithSnapshot(ctx context.Context, a *model.RiskAssessment, level model.RiskLevel) error {
	return nil
}
func (f *fakeAssessments) Get(ctx context.Context, id int64) (*model.RiskAssessment, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeAssessments) List(ctx context.Context, filters *model.AssessmentFilters) ([]*model.RiskAssessment, error) {
	return nil, nil
}
func (f *fakeAssessments) Count(ctx context.Context) (int, error) { return f.dist.Total(), nil }
func (f *fakeAssessments) CountSince(ctx context.Context, since time.Time) (int, error) {
	return f.today, nil
}
func (f *fakeAssessments) CountByScoreAbove(ctx context.Context, threshold float64) (int, error) {
	return f.dist.High, nil
}
func (f *fakeAssessments) Distribution(ctx context.Context, mediumThreshold, highThreshold float64) (*model.RiskDistribution, error) {
	return f.dist, nil
}
func (f *fakeAssessments) TopByScoreAbove(ctx context.Context, threshold float64, limit int) ([]*model.RiskAssessment, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

type fakeRooms struct {
	available int
}

func (f *fakeRooms) Create(ctx context.Context, room *model.Room) error { return nil }
func (f *fakeRooms) Get(ctx context.Context, id int64) (*model.Room, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeRooms) Update(ctx context.Context, room *model.Room) error { return nil }
func (f *fakeRooms) Delete(ctx context.Context, id int64) error         { return nil }
func (f *fakeRooms) List(ctx context.Context) ([]*model.Room, error)    { return nil, nil }
func (f *fakeRooms) CountByStatus(ctx context.Context, status model.RoomStatus) (int, error) {
	if status == model.RoomStatusAvailable {
		return f.available, nil
	}
	return 0, nil
}

type fakeInventory struct {
	items []*model.Inventory
}

func (f *fakeInventory) Create(ctx context.Context, item *model.Inventory) error { return nil }
func (f *fakeInventory) Get(ctx context.Context, id int64) (*model.Inventory, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeInventory) Update(ctx context.Context, item *model.Inventory) error { return nil }
func (f *fakeInventory) Delete(ctx context.Context, id int64) error              { return nil }
func (f *fakeInventory) List(ctx context.Context) ([]*model.Inventory, error)    { return f.items, nil }
func (f *fakeInventory) Upsert(ctx context.Context, item *model.Inventory) (bool, error) {
	return false, nil
}
func (f *fakeInventory) Count(ctx context.Context) (int, error)         { return len(f.items), nil }
func (f *fakeInventory) CountDepleted(ctx context.Context) (int, error) { return 0, nil }
func (f *fakeInventory) RecordUsage(ctx context.Context, usage *model.InventoryUsage) error {
	return nil
}
func (f *fakeInventory) DailyConsumption(ctx context.Context, inventoryID int64, from, to time.Time) (map[string]int, error) {
	return nil, nil
}

func patientWith(id int64, name, condition, appointment string) *model.Patient {
	p := &model.Patient{Name: name, Condition: condition, Appointment: appointment}
	p.ID = id
	return p
}

func newTestService() *Service {
	svc := NewService(
		&fakePatients{patients: []*model.Patient{
			patientWith(1, "Jane Doe", "Screening", "2026-08-31 09:00"),
			patientWith(2, "Mary Major", "Follow-up", "2026-09-02 11:00"),
		}},
		&fakeAssessments{
			dist:  &model.RiskDistribution{High: 2, Medium: 3, Low: 5},
			today: 4,
			top: []*model.RiskAssessment{
				{ID: 1, PatientID: 1, RiskScore: 0.91},
				{ID: 2, PatientID: 2, RiskScore: 0.75},
			},
		},
		&fakeRooms{available: 3},
		&fakeInventory{items: []*model.Inventory{
			{Name: "Ibuprofen 400mg", AvailableStock: 94, TotalStock: 100},
		}},
	)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestReplyPatientCount(t *testing.T) {
	svc := newTestService()

	reply, err := svc.Reply(context.Background(), "How many patients do we have?")
	require.NoError(t, err)
	assert.Equal(t, "There are 2 patients in the system.", reply)
}

func TestReplyRiskDistribution(t *testing.T) {
	svc := newTestService()

	reply, err := svc.Reply(context.Background(), "show me the RISK DISTRIBUTION")
	require.NoError(t, err)
	assert.Equal(t, "Risk distribution: 2 high, 3 medium, 5 low risk patients.", reply)
}

func TestReplyAvailableRooms(t *testing.T) {
	svc := newTestService()

	reply, err := svc.Reply(context.Background(), "any free rooms?")
	require.NoError(t, err)
	assert.Equal(t, "There are 3 rooms available.", reply)
}

func TestReplyAssessmentStats(t *testing.T) {
	svc := newTestService()

	reply, err := svc.Reply(context.Background(), "assessment stats please")
	require.NoError(t, err)
	assert.Equal(t, "Total risk assessments: 10. Assessments today: 4.", reply)
}

func TestReplyHighRiskPatients(t *testing.T) {
	svc := newTestService()

	reply, err := svc.Reply(context.Background(), "who are the high risk patients")
	require.NoError(t, err)
	assert.Contains(t, reply, "Jane Doe (Risk Score: 91)")
	assert.Contains(t, reply, "Mary Major (Risk Score: 75)")
}

func TestReplyTodaysSchedule(t *testing.T) {
	svc := newTestService()

	reply, err := svc.Reply(context.Background(), "what is today's schedule")
	require.NoError(t, err)
	assert.Contains(t, reply, "Jane Doe (Screening) at 2026-08-31 09:00")
	assert.NotContains(t, reply, "Mary Major")
}

func TestReplyResources(t *testing.T) {
	svc := newTestService()

	reply, err := svc.Reply(context.Background(), "inventory status")
	require.NoError(t, err)
	assert.Contains(t, reply, "Ibuprofen 400mg: 94/100 available")
}

func TestReplyFallback(t *testing.T) {
	svc := newTestService()

	reply, err := svc.Reply(context.Background(), "what's the weather like?")
	require.NoError(t, err)
	assert.Contains(t, reply, "I can help with")
}

func TestReplyRuleOrder(t *testing.T) {
	svc := newTestService()

	// "risk level" outranks the high-risk-patient rule even though the
	// message also mentions patients.
	reply, err := svc.Reply(context.Background(), "risk level for our patients")
	require.NoError(t, err)
	assert.Contains(t, reply, "Risk distribution:")
}
