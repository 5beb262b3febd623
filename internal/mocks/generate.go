// Package mocks provides generated mock implementations of the marketplace ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockProfileRepository(ctrl)
//	repo.EXPECT().GetByUserID(gomock.Any(), "u1").Return(&profile.Profile{UserID: "u1"}, nil)
package mocks

// Generate mock for ProfileRepository interface from internal/ports package.
// Methods: GetByUserID, Upsert, SetSeller
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_repository_mock.go github.com/target/marketplace-ui/internal/ports ProfileRepository

// Generate mock for SessionStore interface from internal/ports package.
// Methods: Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/target/marketplace-ui/internal/ports SessionStore
