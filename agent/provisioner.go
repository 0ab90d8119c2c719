package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hupe1980/agenttriage/core"
	"github.com/hupe1980/agenttriage/logging"
)

// Options configures a Provisioner.
type Options struct {
	// Out receives the cleanup confirmations.
	Out io.Writer
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Provisioner creates remote agents and remembers them until Cleanup. All
// exported methods are goroutine-safe.
type Provisioner struct {
	svc    core.AgentService
	out    io.Writer
	logger logging.Logger

	mu       sync.Mutex
	created  map[Role]core.Agent
	creating map[Role]bool
	order    []Role
}

// NewProvisioner constructs a Provisioner over svc.
func NewProvisioner(svc core.AgentService, optFns ...func(o *Options)) *Provisioner {
	opts := Options{Out: io.Discard, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provisioner{
		svc:     svc,
		out:     opts.Out,
		logger:  logging.OrNoOp(opts.Logger),
		created:  make(map[Role]core.Agent),
		creating: make(map[Role]bool),
	}
}

// Create validates def and issues exactly one remote create for role. On
// success the agent is recorded for Cleanup; on failure nothing is recorded.
func (p *Provisioner) Create(ctx context.Context, role Role, def core.AgentDefinition) (core.Agent, error) {
	if strings.TrimSpace(def.Model) == "" {
		return core.Agent{}, &core.ConfigurationError{Key: "model", Err: core.ErrMissingConfiguration}
	}
	if strings.TrimSpace(def.Instructions) == "" {
		return core.Agent{}, &core.ConfigurationError{Key: string(role) + " instructions", Err: core.ErrEmptyInstructions}
	}

	// The role stays reserved while the remote create is in flight.
	p.mu.Lock()
	_, exists := p.created[role]
	if exists || p.creating[role] {
		p.mu.Unlock()
		return core.Agent{}, fmt.Errorf("agent for role %s already provisioned", role)
	}
	p.creating[role] = true
	p.mu.Unlock()

	a, err := p.svc.CreateAgent(ctx, def)

	p.mu.Lock()
	delete(p.creating, role)
	if err == nil {
		p.created[role] = a
		p.order = append(p.order, role)
	}
	p.mu.Unlock()

	if err != nil {
		return core.Agent{}, fmt.Errorf("create %s agent: %w", role, err)
	}

	p.logger.Info("Agent created", "role", string(role), "agent_id", a.ID, "agent_name", a.Name, "tools", len(a.Tools))
	return a, nil
}

// Agent returns the recorded agent for role.
func (p *Provisioner) Agent(role Role) (core.Agent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.created[role]
	return a, ok
}

// Created returns the recorded agents in creation order.
func (p *Provisioner) Created() []core.Agent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.Agent, 0, len(p.order))
	for _, r := range p.order {
		if a, ok := p.created[r]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Cleanup deletes every recorded agent, triage first and then priority, team
// and effort; roles outside the roster follow in creation order. A failed
// deletion does not stop the remaining ones; all failures are joined. Deleted
// agents are forgotten, so Cleanup is safe to call more than once. It returns
// the ids that were deleted.
func (p *Provisioner) Cleanup(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	roles := p.cleanupRolesLocked()
	p.mu.Unlock()

	if len(roles) == 0 {
		return nil, nil
	}

	fmt.Fprintln(p.out, "Cleaning up agents:")

	var (
		deleted []string
		errs    []error
	)
	for _, role := range roles {
		p.mu.Lock()
		a, ok := p.created[role]
		p.mu.Unlock()
		if !ok {
			continue
		}

		if err := p.svc.DeleteAgent(ctx, a.ID); err != nil {
			p.logger.Error("Agent deletion failed", "role", string(role), "agent_id", a.ID, "error", err)
			errs = append(errs, fmt.Errorf("delete %s agent %s: %w", role, a.ID, err))
			continue
		}

		p.mu.Lock()
		delete(p.created, role)
		p.mu.Unlock()

		deleted = append(deleted, a.ID)
		fmt.Fprintf(p.out, "Deleted %s agent.\n", role)
	}

	return deleted, errors.Join(errs...)
}

func (p *Provisioner) cleanupRolesLocked() []Role {
	roles := make([]Role, 0, len(p.created))
	seen := map[Role]bool{}
	for _, r := range CleanupOrder() {
		if _, ok := p.created[r]; ok {
			roles = append(roles, r)
			seen[r] = true
		}
	}
	for _, r := range p.order {
		if _, ok := p.created[r]; ok && !seen[r] {
			roles = append(roles, r)
			seen[r] = true
		}
	}
	return roles
}
