package notify

import (
	"context"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of contract.Notifier.
type MockNotifier struct {
	mock.Mock
}

var _ contract.Notifier = &MockNotifier{} // Compile-time check

// Notify mocks the Notify method.
func (m *MockNotifier) Notify(ctx context.Context, n schema.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
