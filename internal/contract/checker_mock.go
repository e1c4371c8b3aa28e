package contract

import (
	"context"

	"github.com/alchm-kitchen/typesweep/schema"
	"github.com/stretchr/testify/mock"
)

// MockTypeChecker is a mock implementation of TypeChecker for testing.
type MockTypeChecker struct {
	mock.Mock
}

var _ TypeChecker = &MockTypeChecker{} // Compile-time check

// ResolveRoot implements the TypeChecker interface.
func (m *MockTypeChecker) ResolveRoot(ctx context.Context, contextPath string) (string, error) {
	args := m.Called(ctx, contextPath)
	return args.String(0), args.Error(1)
}

// Check implements the TypeChecker interface.
func (m *MockTypeChecker) Check(ctx context.Context, projectPath string) ([]string, error) {
	args := m.Called(ctx, projectPath)
	diags, _ := args.Get(0).([]string)
	return diags, args.Error(1)
}

// RunTests implements the TypeChecker interface.
func (m *MockTypeChecker) RunTests(ctx context.Context, projectPath string, scope string) error {
	args := m.Called(ctx, projectPath, scope)
	return args.Error(0)
}

// MockDomainProvider is a mock implementation of DomainProvider for testing.
type MockDomainProvider struct {
	mock.Mock
}

var _ DomainProvider = &MockDomainProvider{} // Compile-time check

// DomainFor implements the DomainProvider interface.
func (m *MockDomainProvider) DomainFor(path string) schema.Domain {
	args := m.Called(path)
	domain, _ := args.Get(0).(schema.Domain)
	return domain
}

// HintsFor implements the DomainProvider interface.
func (m *MockDomainProvider) HintsFor(path string) ([]string, []string) {
	args := m.Called(path)
	hints, _ := args.Get(0).([]string)
	types, _ := args.Get(1).([]string)
	return hints, types
}
