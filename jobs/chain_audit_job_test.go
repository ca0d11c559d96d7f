package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"fueltrack-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) AuditAll(ctx context.Context) (map[uint][]models.ChainIssue, error) {
	args := m.Called(ctx)
	drifted, _ := args.Get(0).(map[uint][]models.ChainIssue)
	return drifted, args.Error(1)
}

func TestChainAuditJobAudit(t *testing.T) {
	auditor := new(mockAuditor)
	auditor.On("AuditAll", mock.Anything).Return(map[uint][]models.ChainIssue{
		3: {{LogID: 11, Date: "2024-03-02", Field: "final_fuel_level", Stored: 30, Expected: 38}},
		7: {{Field: "current_fuel", Stored: 1, Expected: 2}},
	}, nil).Once()

	job := NewChainAuditJob(auditor, time.Hour)
	defer job.ticker.Stop()

	assert.Equal(t, 2, job.audit())
	auditor.AssertExpectations(t)
}

func TestChainAuditJobAuditError(t *testing.T) {
	auditor := new(mockAuditor)
	auditor.On("AuditAll", mock.Anything).Return(nil, errors.New("db down")).Once()

	job := NewChainAuditJob(auditor, time.Hour)
	defer job.ticker.Stop()

	assert.Equal(t, 0, job.audit())
	auditor.AssertExpectations(t)
}

func TestChainAuditJobStartStop(t *testing.T) {
	auditor := new(mockAuditor)
	ran := make(chan struct{}, 1)
	auditor.On("AuditAll", mock.Anything).Return(map[uint][]models.ChainIssue{}, nil).Run(func(mock.Arguments) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	job := NewChainAuditJob(auditor, time.Hour)
	job.Start()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("audit did not run on start")
	}

	job.Stop()
	auditor.AssertCalled(t, "AuditAll", mock.Anything)
}
