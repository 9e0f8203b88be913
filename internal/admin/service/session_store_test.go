package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMemorySessionStore_CreateAndValid(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	token, err := store.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, store.Valid(token))
}

func TestMemorySessionStore_TokensAreUnique(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	first, err := store.Create()
	require.NoError(t, err)
	second, err := store.Create()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestMemorySessionStore_UnknownTokenInvalid(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	assert.False(t, store.Valid("never-issued"))
}

func TestMemorySessionStore_Destroy(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	token, err := store.Create()
	require.NoError(t, err)

	store.Destroy(token)
	assert.False(t, store.Valid(token))

	// Destroying again is a no-op
	store.Destroy(token)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore(time.Hour).(*memorySessionStore)

	current := time.Now()
	store.now = func() time.Time { return current }

	token, err := store.Create()
	require.NoError(t, err)
	assert.True(t, store.Valid(token))

	// Move past the TTL
	current = current.Add(2 * time.Hour)
	assert.False(t, store.Valid(token))

	// The expired session was removed on lookup
	store.mu.Lock()
	_, exists := store.sessions[token]
	store.mu.Unlock()
	assert.False(t, exists)
}

func TestMemorySessionStore_ConcurrentAccess(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := store.Create()
			assert.NoError(t, err)
			assert.True(t, store.Valid(token))
			store.Destroy(token)
			assert.False(t, store.Valid(token))
		}()
	}
	wg.Wait()
}

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.True(t, svc.Verify("correct horse battery staple", hash))
	assert.False(t, svc.Verify("wrong password", hash))
}

func TestPasswordService_VerifyBcryptHash(t *testing.T) {
	svc := NewPasswordService()

	// Earlier deployments stored bcrypt hashes; verification must keep
	// accepting them alongside Argon2id.
	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, svc.Verify("admin", string(bcryptHash)))
	assert.False(t, svc.Verify("not-admin", string(bcryptHash)))
}
