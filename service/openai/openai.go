// Package openai provides an implementation of core.AgentService using the
// Assistants-compatible agents API through the official OpenAI Go SDK. It
// adapts the SDK's assistant, thread, message and run resources into the
// core domain types and maps API failures onto core.RemoteServiceError.
package openai

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/agenttriage/core"
)

// Options configure the service adapter.
type Options struct {
	// PollInterval is the delay between run status polls.
	PollInterval time.Duration
}

// Service implements core.AgentService on top of an openai.Client. The client
// must be configured without automatic retries.
type Service struct {
	client *openai.Client
	opts   Options
}

var _ core.AgentService = (*Service)(nil)

// NewService creates a service from client options. Retries are disabled
// regardless of the supplied options.
func NewService(clientOpts []option.RequestOption, optFns ...func(o *Options)) *Service {
	clientOpts = append(clientOpts, option.WithMaxRetries(0))
	client := openai.NewClient(clientOpts...)
	return NewServiceFromClient(&client, optFns...)
}

// NewServiceFromClient creates a service from an existing client.
func NewServiceFromClient(client *openai.Client, optFns ...func(o *Options)) *Service {
	opts := Options{PollInterval: time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Service{client: client, opts: opts}
}

// CreateAgent creates an assistant. Connected agent tools are not part of the
// SDK's tool union and are therefore written into the request body directly.
func (s *Service) CreateAgent(ctx context.Context, def core.AgentDefinition) (core.Agent, error) {
	params := openai.BetaAssistantNewParams{
		Model:        def.Model,
		Name:         openai.String(def.Name),
		Instructions: openai.String(def.Instructions),
	}
	var reqOpts []option.RequestOption
	if len(def.Tools) > 0 {
		tools := make([]map[string]any, len(def.Tools))
		for i, t := range def.Tools {
			tools[i] = t.WireFormat()
		}
		reqOpts = append(reqOpts, option.WithJSONSet("tools", tools))
	}

	a, err := s.client.Beta.Assistants.New(ctx, params, reqOpts...)
	if err != nil {
		return core.Agent{}, wrapError(core.OpCreateAgent, err)
	}
	return core.Agent{
		ID:           a.ID,
		Name:         a.Name,
		Model:        a.Model,
		Instructions: a.Instructions,
		Tools:        def.Tools,
		CreatedAt:    time.Unix(a.CreatedAt, 0).UTC(),
	}, nil
}

// DeleteAgent deletes an assistant.
func (s *Service) DeleteAgent(ctx context.Context, agentID string) error {
	if _, err := s.client.Beta.Assistants.Delete(ctx, agentID); err != nil {
		return wrapError(core.OpDeleteAgent, err)
	}
	return nil
}

// CreateThread creates an empty thread.
func (s *Service) CreateThread(ctx context.Context) (core.Thread, error) {
	th, err := s.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return core.Thread{}, wrapError(core.OpCreateThread, err)
	}
	return core.Thread{ID: th.ID, CreatedAt: time.Unix(th.CreatedAt, 0).UTC()}, nil
}

// CreateMessage posts a plain text message to a thread.
func (s *Service) CreateMessage(ctx context.Context, threadID string, role core.MessageRole, text string) (core.Message, error) {
	msg, err := s.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role:    openai.BetaThreadMessageNewParamsRole(role),
		Content: openai.BetaThreadMessageNewParamsContentUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return core.Message{}, wrapError(core.OpCreateMessage, err)
	}
	return toMessage(*msg), nil
}

// CreateAndProcessRun creates a run and polls it every PollInterval until it
// reaches a terminal status. Cancelling ctx stops polling; the remote run is
// left as is.
func (s *Service) CreateAndProcessRun(ctx context.Context, threadID, agentID string) (core.Run, error) {
	run, err := s.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: agentID,
	})
	if err != nil {
		return core.Run{}, wrapError(core.OpRunAndWait, err)
	}

	timer := time.NewTimer(s.opts.PollInterval)
	defer timer.Stop()

	for !core.RunStatus(run.Status).IsTerminal() {
		timer.Reset(s.opts.PollInterval)
		select {
		case <-ctx.Done():
			return core.Run{}, wrapError(core.OpRunAndWait, ctx.Err())
		case <-timer.C:
		}

		run, err = s.client.Beta.Threads.Runs.Get(ctx, threadID, run.ID)
		if err != nil {
			return core.Run{}, wrapError(core.OpRunAndWait, err)
		}
	}
	return toRun(*run), nil
}

// ListMessages lists thread messages lazily, following cursor pages on demand.
func (s *Service) ListMessages(ctx context.Context, threadID string, order core.SortOrder) iter.Seq2[core.Message, error] {
	return func(yield func(core.Message, error) bool) {
		pager := s.client.Beta.Threads.Messages.ListAutoPaging(ctx, threadID, openai.BetaThreadMessageListParams{
			Order: openai.BetaThreadMessageListParamsOrder(order),
		})
		for pager.Next() {
			if !yield(toMessage(pager.Current()), nil) {
				return
			}
		}
		if err := pager.Err(); err != nil {
			yield(core.Message{}, wrapError(core.OpListMessages, err))
		}
	}
}

func toMessage(m openai.Message) core.Message {
	parts := make([]core.Part, 0, len(m.Content))
	for _, c := range m.Content {
		switch c.Type {
		case "text":
			parts = append(parts, core.TextPart{Text: c.Text.Value})
		case "image_file":
			parts = append(parts, core.FilePart{FileID: c.ImageFile.FileID})
		case "image_url":
			parts = append(parts, core.FilePart{URI: c.ImageURL.URL})
		}
	}
	return core.Message{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		Role:      core.MessageRole(m.Role),
		Parts:     parts,
		CreatedAt: time.Unix(m.CreatedAt, 0).UTC(),
	}
}

func toRun(r openai.Run) core.Run {
	run := core.Run{
		ID:       r.ID,
		ThreadID: r.ThreadID,
		AgentID:  r.AssistantID,
		Status:   core.RunStatus(r.Status),
	}
	if r.LastError.Code != "" || r.LastError.Message != "" {
		run.LastError = &core.RunError{Code: string(r.LastError.Code), Message: r.LastError.Message}
	}
	return run
}

// wrapError maps SDK errors onto the core taxonomy. Authentication errors
// raised by request middleware keep their type.
func wrapError(op string, err error) error {
	var authErr *core.AuthenticationError
	if errors.As(err, &authErr) {
		return err
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &core.RemoteServiceError{Op: op, StatusCode: apiErr.StatusCode, Code: apiErr.Code, Err: err}
	}
	return core.NewRemoteServiceError(op, err)
}
