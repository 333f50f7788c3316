// Package mocks holds hand-maintained mocks for driver.go's dependencies,
// used in place of go:generate'd mocks since this module has no
// generate-on-build step.
package mocks

import (
	"go.uber.org/mock/gomock"

	"github.com/NicoJuicy/coyote/operation"
)

// MockSchedulingStrategy is a gomock-compatible mock of
// strategy.SchedulingStrategy.
type MockSchedulingStrategy struct {
	ctrl     *gomock.Controller
	recorder *MockSchedulingStrategyRecorder
}

// MockSchedulingStrategyRecorder records expected calls on a
// MockSchedulingStrategy.
type MockSchedulingStrategyRecorder struct {
	mock *MockSchedulingStrategy
}

// NewMockSchedulingStrategy returns a new mock controlled by ctrl.
func NewMockSchedulingStrategy(ctrl *gomock.Controller) *MockSchedulingStrategy {
	m := &MockSchedulingStrategy{ctrl: ctrl}
	m.recorder = &MockSchedulingStrategyRecorder{m}
	return m
}

// EXPECT returns an object that allows callers to indicate expected calls.
func (m *MockSchedulingStrategy) EXPECT() *MockSchedulingStrategyRecorder {
	return m.recorder
}

// Next mocks strategy.SchedulingStrategy.Next.
func (m *MockSchedulingStrategy) Next(enabled []operation.View, current operation.View) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Next", enabled, current)
	id, _ := ret[0].(uint64)
	err, _ := ret[1].(error)
	return id, err
}

// Next records an expectation for a call to Next.
func (mr *MockSchedulingStrategyRecorder) Next(enabled, current interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCall(mr.mock, "Next", enabled, current)
}

// InitializeNextIteration mocks strategy.SchedulingStrategy.InitializeNextIteration.
func (m *MockSchedulingStrategy) InitializeNextIteration(iteration uint64) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "InitializeNextIteration", iteration)
}

// InitializeNextIteration records an expectation for a call to InitializeNextIteration.
func (mr *MockSchedulingStrategyRecorder) InitializeNextIteration(iteration interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCall(mr.mock, "InitializeNextIteration", iteration)
}

// Describe mocks strategy.SchedulingStrategy.Describe.
func (m *MockSchedulingStrategy) Describe() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Describe")
	name, _ := ret[0].(string)
	return name
}

// Describe records an expectation for a call to Describe.
func (mr *MockSchedulingStrategyRecorder) Describe() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCall(mr.mock, "Describe")
}
