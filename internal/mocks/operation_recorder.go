package mocks

import "github.com/stretchr/testify/mock"

// OperationRecorder is a mock of model.OperationRecorder.
type OperationRecorder struct {
	mock.Mock
}

func (m *OperationRecorder) RecordOperation(operation, outcome string) {
	m.Called(operation, outcome)
}

// NewOperationRecorder creates a OperationRecorder mock and asserts its expectations on test cleanup.
func NewOperationRecorder(t interface {
	mock.TestingT
	Cleanup(func())
}) *OperationRecorder {
	m := &OperationRecorder{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
