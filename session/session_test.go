package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenttriage/config"
	"github.com/hupe1980/agenttriage/core"
)

type fakeCredential struct {
	mu     sync.Mutex
	calls  int
	scopes []string
	ttl    time.Duration
	err    error
}

func (f *fakeCredential) GetToken(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.scopes = opts.Scopes
	if f.err != nil {
		return azcore.AccessToken{}, f.err
	}
	return azcore.AccessToken{Token: "tok-1", ExpiresOn: time.Now().Add(f.ttl)}, nil
}

var _ azcore.TokenCredential = (*fakeCredential)(nil)

type recordedRequest struct {
	path, auth, apiVersion, requestID string
}

func newThreadServer(t *testing.T) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			path:       r.URL.Path,
			auth:       r.Header.Get("Authorization"),
			apiVersion: r.URL.Query().Get("api-version"),
			requestID:  r.Header.Get("x-ms-client-request-id"),
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"thread_1","object":"thread","created_at":1700000000}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		Endpoint:        endpoint + "/api/projects/demo",
		ModelDeployment: "gpt-stub",
		APIVersion:      config.DefaultAPIVersion,
		RunPollInterval: 10 * time.Millisecond,
	}
}

func TestOpen_AuthorizesRequests(t *testing.T) {
	srv, reqs := newThreadServer(t)
	cred := &fakeCredential{ttl: time.Hour}

	s, err := Open(context.Background(), testConfig(srv.URL), func(o *Options) { o.Credential = cred })
	require.NoError(t, err)
	defer s.Close()

	th, err := s.Service().CreateThread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "thread_1", th.ID)

	_, err = s.Service().CreateThread(context.Background())
	require.NoError(t, err)

	require.Len(t, *reqs, 2)
	first := (*reqs)[0]
	assert.Equal(t, "/api/projects/demo/threads", first.path)
	assert.Equal(t, "Bearer tok-1", first.auth)
	assert.Equal(t, config.DefaultAPIVersion, first.apiVersion)
	assert.NotEmpty(t, first.requestID)
	assert.NotEqual(t, first.requestID, (*reqs)[1].requestID)

	// the token is cached: one acquisition at Open, reused afterwards
	assert.Equal(t, 1, cred.calls)
	assert.Equal(t, []string{DefaultScope}, cred.scopes)
}

func TestOpen_RefreshesExpiringToken(t *testing.T) {
	srv, _ := newThreadServer(t)
	cred := &fakeCredential{ttl: time.Minute}

	s, err := Open(context.Background(), testConfig(srv.URL), func(o *Options) { o.Credential = cred })
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Service().CreateThread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cred.calls)
}

func TestOpen_AuthenticationError(t *testing.T) {
	cause := errors.New("no az login")
	_, err := Open(context.Background(), testConfig("https://stub"), func(o *Options) {
		o.Credential = &fakeCredential{err: cause}
	})

	var authErr *core.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, cause)
}

func TestWith_ClosesOnError(t *testing.T) {
	srv, reqs := newThreadServer(t)
	boom := errors.New("boom")
	var captured *Session

	err := With(context.Background(), testConfig(srv.URL), func(_ context.Context, s *Session) error {
		captured = s
		return boom
	}, func(o *Options) { o.Credential = &fakeCredential{ttl: time.Hour} })

	assert.ErrorIs(t, err, boom)
	require.NotNil(t, captured)

	_, err = captured.Service().CreateThread(context.Background())
	assert.ErrorIs(t, err, core.ErrSessionClosed)
	assert.Empty(t, *reqs)
	assert.NoError(t, captured.Close())
}

func TestWith_ClosesOnPanic(t *testing.T) {
	var captured *Session

	assert.Panics(t, func() {
		_ = With(context.Background(), testConfig("https://stub"), func(_ context.Context, s *Session) error {
			captured = s
			panic("unexpected")
		}, func(o *Options) { o.Credential = &fakeCredential{ttl: time.Hour} })
	})

	require.NotNil(t, captured)
	assert.True(t, captured.closed.Load())
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://x/api/projects/p/", baseURL("https://x/api/projects/p"))
	assert.Equal(t, "https://x/api/projects/p/", baseURL("https://x/api/projects/p/"))
}
