package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/google/uuid"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/agenttriage/config"
	"github.com/hupe1980/agenttriage/core"
	"github.com/hupe1980/agenttriage/logging"
	"github.com/hupe1980/agenttriage/service"
	openaisvc "github.com/hupe1980/agenttriage/service/openai"
)

// Request headers and query parameters added to every call.
const (
	headerAuthorization   = "Authorization"
	headerClientRequestID = "x-ms-client-request-id"
	queryAPIVersion       = "api-version"
)

// Options configures Open.
type Options struct {
	// Credential overrides the ambient credential chain.
	Credential azcore.TokenCredential
	// Scope is the token audience (defaults to DefaultScope).
	Scope string
	// HTTPClient is used for all requests; a dedicated client is created when nil.
	HTTPClient *http.Client
	// Logger receives one entry per remote call (defaults to NoOp).
	Logger logging.Logger
}

// Session is the authenticated connection to the agent service.
type Session struct {
	cfg        *config.Config
	tokens     *tokenSource
	httpClient *http.Client
	svc        core.AgentService
	logger     logging.Logger
	closed     atomic.Bool
}

// Open resolves credentials, acquires an initial token and prepares the
// agent service client. It fails with *core.AuthenticationError when no
// credential yields a token.
func Open(ctx context.Context, cfg *config.Config, optFns ...func(o *Options)) (*Session, error) {
	opts := Options{Scope: DefaultScope}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	cred := opts.Credential
	if cred == nil {
		var err error
		if cred, err = NewAmbientCredential(); err != nil {
			return nil, &core.AuthenticationError{Err: err}
		}
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	s := &Session{
		cfg:        cfg,
		tokens:     newTokenSource(cred, opts.Scope),
		httpClient: httpClient,
		logger:     logger,
	}
	if _, err := s.tokens.Token(ctx); err != nil {
		return nil, err
	}

	client := openaisvc.NewService([]option.RequestOption{
		option.WithBaseURL(baseURL(cfg.Endpoint)),
		option.WithHTTPClient(httpClient),
		option.WithMiddleware(s.authorize),
	}, func(o *openaisvc.Options) {
		o.PollInterval = cfg.RunPollInterval
	})
	s.svc = service.NewInstrumented(client, logger)

	logger.Info("Session opened", "endpoint", cfg.Endpoint, "api_version", cfg.APIVersion)
	return s, nil
}

// With opens a session, hands it to fn and closes it on every exit path,
// including panics. Errors from fn and Close are joined.
func With(ctx context.Context, cfg *config.Config, fn func(ctx context.Context, s *Session) error, optFns ...func(o *Options)) (err error) {
	s, err := Open(ctx, cfg, optFns...)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()
	return fn(ctx, s)
}

// Service returns the agent service bound to this session.
func (s *Session) Service() core.AgentService { return s.svc }

// Close releases idle connections. It is idempotent.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.httpClient.CloseIdleConnections()
	s.logger.Info("Session closed")
	return nil
}

// authorize is the request middleware stamping credentials, a client
// request id and the API version onto every outgoing request.
func (s *Session) authorize(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	if s.closed.Load() {
		return nil, core.ErrSessionClosed
	}
	tok, err := s.tokens.Token(req.Context())
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerAuthorization, "Bearer "+tok)
	req.Header.Set(headerClientRequestID, uuid.NewString())

	q := req.URL.Query()
	q.Set(queryAPIVersion, s.cfg.APIVersion)
	req.URL.RawQuery = q.Encode()

	return next(req)
}

func baseURL(endpoint string) string {
	return strings.TrimRight(endpoint, "/") + "/"
}
