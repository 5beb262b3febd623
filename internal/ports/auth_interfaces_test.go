package ports_test

import (
	"testing"

	"github.com/target/marketplace-ui/internal/mocks"
	mockauth "github.com/target/marketplace-ui/internal/mocks/auth"
	"github.com/target/marketplace-ui/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*mockauth.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*mockauth.MemorySessionStore)(nil)
	var _ ports.AccountTypeMapper = mockauth.StaticSellerMapper{}
	var _ ports.ProfileRepository = (*mocks.MockProfileRepository)(nil)
}
