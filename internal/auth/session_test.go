package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaargo/storefront/internal/api"
	"github.com/bazaargo/storefront/internal/domain"
	"github.com/bazaargo/storefront/internal/storage"
)

type mockVerifier struct {
	m           sync.Mutex
	requested   []string
	credential  string
	confirmErr  error
	invalidated int
}

func (v *mockVerifier) RequestCode(_ context.Context, phone string) error {
	v.m.Lock()
	defer v.m.Unlock()
	v.requested = append(v.requested, phone)
	return nil
}

func (v *mockVerifier) ConfirmCode(_ context.Context, phone, code string) (string, error) {
	v.m.Lock()
	defer v.m.Unlock()
	if v.confirmErr != nil {
		return "", v.confirmErr
	}
	return v.credential, nil
}

func (v *mockVerifier) Invalidate(context.Context) error {
	v.m.Lock()
	defer v.m.Unlock()
	v.invalidated++
	return nil
}

type mockCart struct {
	cleared int
}

func (c *mockCart) Clear() { c.cleared++ }

func testBackend(t *testing.T) *api.Client {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/auth/verify", func(w http.ResponseWriter, req *http.Request) {
		var body api.ExchangeCredentialRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		if body.Credential != "cred-ok" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(api.ErrorResponse{Error: "bad credential"})
			return
		}
		json.NewEncoder(w).Encode(domain.AuthSession{
			Token: "tok-123",
			User:  domain.User{ID: 7, Name: body.Name, Phone: body.Phone},
		})
	})
	r.Post("/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api.NewClient(api.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
}

func testStorage(t *testing.T) *storage.BoltStore {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestVerify_PersistsSession(t *testing.T) {
	st := testStorage(t)
	verifier := &mockVerifier{credential: "cred-ok"}
	sut := NewManager(verifier, testBackend(t), st, &mockCart{}, nil)

	require.NoError(t, sut.RequestCode(context.Background(), "+9155500011"))
	assert.Equal(t, []string{"+9155500011"}, verifier.requested)

	sess, err := sut.Verify(context.Background(), "+9155500011", "123456", "Asha")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", sess.Token)
	assert.Equal(t, "Asha", sess.User.Name)
	assert.Equal(t, "tok-123", sut.Token())

	token, err := st.Get(storage.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-123"), token)

	user, err := st.Get(storage.KeyUser)
	require.NoError(t, err)
	var u domain.User
	require.NoError(t, json.Unmarshal(user, &u))
	assert.Equal(t, int64(7), u.ID)
}

func TestVerify_ConfirmFails(t *testing.T) {
	sut := NewManager(&mockVerifier{confirmErr: fmt.Errorf("wrong code")}, testBackend(t), testStorage(t), nil, nil)

	_, err := sut.Verify(context.Background(), "+9155500011", "000000", "Asha")
	require.ErrorContains(t, err, "wrong code")
	assert.Empty(t, sut.Token())
}

func TestVerify_ExchangeRejected(t *testing.T) {
	st := testStorage(t)
	sut := NewManager(&mockVerifier{credential: "cred-bad"}, testBackend(t), st, nil, nil)

	_, err := sut.Verify(context.Background(), "+9155500011", "123456", "Asha")
	require.ErrorContains(t, err, "exchange credential")
	assert.Empty(t, sut.Token())
	_, err = st.Get(storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoad_RestoresPersistedSession(t *testing.T) {
	st := testStorage(t)
	require.NoError(t, st.Put(storage.KeyToken, []byte("tok-old")))
	user, _ := json.Marshal(domain.User{ID: 3, Name: "Ravi", Phone: "+915550002"})
	require.NoError(t, st.Put(storage.KeyUser, user))

	sut := NewManager(&mockVerifier{}, testBackend(t), st, nil, nil)
	sut.Load()

	assert.Equal(t, "tok-old", sut.Token())
	require.NotNil(t, sut.Current())
	assert.Equal(t, "Ravi", sut.Current().User.Name)
}

func TestLoad_NoPersistedSession(t *testing.T) {
	sut := NewManager(&mockVerifier{}, testBackend(t), testStorage(t), nil, nil)
	sut.Load()
	assert.Empty(t, sut.Token())
	assert.Nil(t, sut.Current())
}

func TestLogout_ClearsEverything(t *testing.T) {
	st := testStorage(t)
	verifier := &mockVerifier{credential: "cred-ok"}
	cart := &mockCart{}
	sut := NewManager(verifier, testBackend(t), st, cart, nil)

	_, err := sut.Verify(context.Background(), "+9155500011", "123456", "Asha")
	require.NoError(t, err)

	sut.Logout(context.Background())

	assert.Empty(t, sut.Token())
	assert.Nil(t, sut.Current())
	assert.Equal(t, 1, verifier.invalidated)
	assert.Equal(t, 1, cart.cleared)
	_, err = st.Get(storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = st.Get(storage.KeyUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClearSession_IsIdempotent(t *testing.T) {
	sut := NewManager(&mockVerifier{}, testBackend(t), testStorage(t), nil, nil)
	sut.ClearSession()
	sut.ClearSession()
	assert.Empty(t, sut.Token())
}
