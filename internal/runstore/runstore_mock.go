package runstore

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetCampaignStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetCampaignStore() contract.CampaignStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CampaignStore)
	return store
}

// MockCampaignStore is a mock implementation of CampaignStore for testing.
type MockCampaignStore struct {
	mock.Mock
}

var _ contract.CampaignStore = &MockCampaignStore{} // Compile-time check

// BeginRun implements the CampaignStore interface.
func (m *MockCampaignStore) BeginRun(runID string, profile schema.CampaignProfile, startTime time.Time, configParams map[string]any) error {
	args := m.Called(runID, profile, startTime, configParams)
	return args.Error(0)
}

// EndRun implements the CampaignStore interface.
func (m *MockCampaignStore) EndRun(runID string, endTime time.Time, finalState schema.CampaignState, stopReason string, results schema.CampaignResults) error {
	args := m.Called(runID, endTime, finalState, stopReason, results)
	return args.Error(0)
}

// RecordBatch implements the CampaignStore interface.
func (m *MockCampaignStore) RecordBatch(runID string, metrics schema.BatchMetrics) error {
	args := m.Called(runID, metrics)
	return args.Error(0)
}

// RecordSafetyEvent implements the CampaignStore interface.
func (m *MockCampaignStore) RecordSafetyEvent(event schema.SafetyEventRecord) error {
	args := m.Called(event)
	return args.Error(0)
}

// GetStatus implements the CampaignStore interface.
func (m *MockCampaignStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.HistoryStatus)
	return status, args.Error(1)
}

// GetAllRuns implements the CampaignStore interface.
func (m *MockCampaignStore) GetAllRuns() ([]schema.CampaignRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.CampaignRunRecord)
	return runs, args.Error(1)
}

// GetAllBatchMetrics implements the CampaignStore interface.
func (m *MockCampaignStore) GetAllBatchMetrics() ([]schema.BatchMetricsRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.BatchMetricsRecord)
	return records, args.Error(1)
}

// GetAllSafetyEvents implements the CampaignStore interface.
func (m *MockCampaignStore) GetAllSafetyEvents() ([]schema.SafetyEventRecord, error) {
	args := m.Called()
	events, _ := args.Get(0).([]schema.SafetyEventRecord)
	return events, args.Error(1)
}

// Close implements the CampaignStore interface.
func (m *MockCampaignStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
