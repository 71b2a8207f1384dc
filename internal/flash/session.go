package flash

import (
	"context"
	"fmt"
	"os"

	"github.com/pmadden/ember/internal/build"
	"github.com/pmadden/ember/internal/transport"
)

// State tracks where a flash session is in its lifecycle.
// Done and Failed are terminal; there are no retries.
type State int

const (
	StateIdle State = iota
	StateBuilding
	StateProgramming
	StateResetting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateProgramming:
		return "programming"
	case StateResetting:
		return "resetting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ImageBuilder produces a hex image for a named target.
type ImageBuilder interface {
	Build(ctx context.Context, target string, mode build.Mode) (*build.Artifact, error)
}

// Session runs one sequential build-program-reset pipeline. Stages block
// and the first failure is terminal. Killing the process mid-program can
// leave the device half-flashed; that risk is inherent to the domain and
// is not recovered from here.
type Session struct {
	builder    ImageBuilder
	selector   *transport.Selector
	programmer *Programmer
	state      State
}

// NewSession wires the pipeline stages together.
func NewSession(b ImageBuilder, sel *transport.Selector, p *Programmer) *Session {
	return &Session{builder: b, selector: sel, programmer: p, state: StateIdle}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// Run builds the target and flashes the resulting image. The programmer is
// never invoked unless the build succeeded.
func (s *Session) Run(ctx context.Context, target string, mode build.Mode, tmode transport.Mode) (*Result, error) {
	s.state = StateBuilding
	art, err := s.builder.Build(ctx, target, mode)
	if err != nil {
		s.state = StateFailed
		return nil, err
	}
	return s.flashImage(ctx, art.HexPath, tmode)
}

// RunImage flashes a prebuilt hex image (e.g. the bootloader) without
// building anything.
func (s *Session) RunImage(ctx context.Context, hexPath string, tmode transport.Mode) (*Result, error) {
	if _, err := os.Stat(hexPath); err != nil {
		s.state = StateFailed
		return nil, fmt.Errorf("hex image %s: %w", hexPath, err)
	}
	return s.flashImage(ctx, hexPath, tmode)
}

func (s *Session) flashImage(ctx context.Context, hexPath string, tmode transport.Mode) (*Result, error) {
	desc, err := s.selector.Select(tmode)
	if err != nil {
		s.state = StateFailed
		return nil, err
	}

	release, err := s.programmer.Acquire(desc)
	if err != nil {
		s.state = StateFailed
		return nil, err
	}
	defer release()

	s.state = StateProgramming
	res, err := s.programmer.Program(ctx, hexPath, desc)
	if err != nil {
		s.state = StateFailed
		return res, err
	}

	if desc.Kind == transport.DebugProbe {
		s.state = StateResetting
		rres, rerr := s.programmer.Reset(ctx, desc)
		res.Output += rres.Output
		res.Duration += rres.Duration
		if rerr != nil {
			res.ExitCode = rres.ExitCode
			s.state = StateFailed
			return res, rerr
		}
	}

	s.state = StateDone
	return res, nil
}
