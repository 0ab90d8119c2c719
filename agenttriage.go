// Package agenttriage provides the high-level façade that runs one support
// ticket triage against a hosted agent service:
//  1. Provision the priority, team and effort specialist agents
//  2. Provision the triage coordinator with the specialists bound as tools
//  3. Open a thread, post the user's ticket and run the coordinator on it
//  4. Print the resulting transcript
//  5. Delete every agent that was created
//
// Cleanup always runs, whether Run returns normally, fails, panics or its
// context is cancelled. It uses a context detached from cancellation so that
// an interrupted triage still removes its remote agents.
package agenttriage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/agenttriage/agent"
	"github.com/hupe1980/agenttriage/config"
	"github.com/hupe1980/agenttriage/core"
	"github.com/hupe1980/agenttriage/logging"
	"github.com/hupe1980/agenttriage/runner"
	"github.com/hupe1980/agenttriage/tool"
	"github.com/hupe1980/agenttriage/transcript"
)

// State is a stage of the triage lifecycle.
type State int

// Lifecycle states, in the order a successful triage passes through them.
const (
	StateInit State = iota
	StateAgentsCreated
	StateToolsBound
	StateTriageCreated
	StateThreadRunning
	StateResultsPrinted
	StateCleanedUp
	StateExit
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateAgentsCreated:
		return "AGENTS_CREATED"
	case StateToolsBound:
		return "TOOLS_BOUND"
	case StateTriageCreated:
		return "TRIAGE_CREATED"
	case StateThreadRunning:
		return "THREAD_RUNNING"
	case StateResultsPrinted:
		return "RESULTS_PRINTED"
	case StateCleanedUp:
		return "CLEANED_UP"
	case StateExit:
		return "EXIT"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// PromptFunc supplies the ticket text once the thread exists.
type PromptFunc func(ctx context.Context) (string, error)

// StaticPrompt returns a PromptFunc yielding text.
func StaticPrompt(text string) PromptFunc {
	return func(context.Context) (string, error) { return text, nil }
}

// Options configures the Pipeline.
type Options struct {
	// Out receives console output (progress lines, transcript, cleanup).
	Out io.Writer
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
	// Color enables coloured transcript role labels.
	Color bool
	// OnTransition observes every state change.
	OnTransition func(from, to State)
}

// Report summarises one triage.
type Report struct {
	// Agents created, in creation order.
	Agents []core.Agent
	Thread core.Thread
	Run    core.Run
	// Messages printed in the transcript.
	Messages []core.Message
	// Deleted holds the agent ids removed during cleanup.
	Deleted []string
	// State is the furthest stage reached before cleanup.
	State State
}

// Pipeline runs triages over an agent service. A Pipeline may be reused; each
// Run provisions and deletes its own agents.
type Pipeline struct {
	svc  core.AgentService
	cfg  *config.Config
	opts Options
}

// New creates a Pipeline over svc using the model and instructions in cfg.
func New(svc core.AgentService, cfg *config.Config, optFns ...func(o *Options)) *Pipeline {
	opts := Options{
		Out:    io.Discard,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	return &Pipeline{svc: svc, cfg: cfg, opts: opts}
}

// Run performs one triage. The returned Report is never nil and reflects how
// far the triage got, even when err is non-nil. Cleanup errors are joined
// into err.
func (p *Pipeline) Run(ctx context.Context, ask PromptFunc) (report *Report, err error) {
	report = &Report{State: StateInit}
	current := StateInit
	advance := func(to State) {
		if p.opts.OnTransition != nil {
			p.opts.OnTransition(current, to)
		}
		p.opts.Logger.Debug("Triage state changed", "from", current.String(), "to", to.String())
		current = to
	}

	prov := agent.NewProvisioner(p.svc, func(o *agent.Options) {
		o.Out = p.opts.Out
		o.Logger = p.opts.Logger
	})
	defer func() {
		report.Agents = prov.Created()
		report.State = current

		deleted, cerr := prov.Cleanup(context.WithoutCancel(ctx))
		report.Deleted = deleted
		if cerr != nil {
			err = errors.Join(err, fmt.Errorf("cleanup: %w", cerr))
		} else {
			advance(StateCleanedUp)
		}
		advance(StateExit)
	}()

	specialists, err := p.provisionSpecialists(ctx, prov)
	if err != nil {
		return report, err
	}
	advance(StateAgentsCreated)

	tools, err := tool.Bind(specialists...)
	if err != nil {
		return report, err
	}
	advance(StateToolsBound)

	triageSpec, _ := agent.Lookup(agent.RoleTriage)
	triage, err := prov.Create(ctx, agent.RoleTriage, triageSpec.Definition(p.cfg, tools...))
	if err != nil {
		return report, err
	}
	advance(StateTriageCreated)

	r := runner.New(p.svc, func(o *runner.Options) {
		o.Out = p.opts.Out
		o.Logger = p.opts.Logger
	})

	fmt.Fprintln(p.opts.Out, "Creating agent thread.")
	thread, err := r.CreateThread(ctx)
	if err != nil {
		return report, err
	}
	report.Thread = thread

	prompt, err := ask(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read prompt: %w", err)
	}
	if _, err := r.PostMessage(ctx, thread.ID, prompt); err != nil {
		return report, err
	}

	fmt.Fprintln(p.opts.Out, "\nProcessing agent thread. Please wait.")
	advance(StateThreadRunning)
	run, err := r.RunAndWait(ctx, thread.ID, triage.ID)
	if err != nil {
		return report, err
	}
	report.Run = run

	printer := transcript.NewPrinter(p.opts.Out, func(o *transcript.Options) { o.Color = p.opts.Color })
	msgs, err := printer.Print(p.svc.ListMessages(ctx, thread.ID, core.Ascending))
	report.Messages = msgs
	if err != nil {
		return report, err
	}
	advance(StateResultsPrinted)

	return report, nil
}

func (p *Pipeline) provisionSpecialists(ctx context.Context, prov *agent.Provisioner) ([]tool.Tool, error) {
	tools := make([]tool.Tool, 0, len(agent.SpecialistRoles()))
	for _, role := range agent.SpecialistRoles() {
		spec, _ := agent.Lookup(role)
		a, err := prov.Create(ctx, role, spec.Definition(p.cfg))
		if err != nil {
			return nil, err
		}
		ct, err := tool.NewConnectedAgentTool(a, spec.ToolDescription)
		if err != nil {
			return nil, err
		}
		tools = append(tools, ct)
	}
	return tools, nil
}
