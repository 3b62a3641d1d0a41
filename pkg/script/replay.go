package script

import (
	"context"
	"io"
	"maps"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gearbox/pkg/canvas"
	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/observability"
	"github.com/matzehuels/gearbox/pkg/part"
)

// Player feeds script events into a controller.
type Player struct {
	c       *canvas.Controller
	logger  *log.Logger
	aliases map[string]string
}

// NewPlayer returns a player driving c. A nil logger discards output.
func NewPlayer(c *canvas.Controller, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{c: c, logger: logger, aliases: make(map[string]string)}
}

// Result summarizes a replay.
type Result struct {
	Applied int
	Aliases map[string]string // alias → item id
}

// Play applies every event of s in order. It stops at the first event that
// fails or when ctx is cancelled; events before that stay applied.
func (p *Player) Play(ctx context.Context, s *Script) (Result, error) {
	hooks := observability.Replay()
	hooks.OnReplayStart(ctx, s.Name, len(s.Events))
	start := time.Now()

	res, err := p.play(ctx, s)

	hooks.OnReplayComplete(ctx, s.Name, res.Applied, time.Since(start), err)
	return res, err
}

func (p *Player) play(ctx context.Context, s *Script) (Result, error) {
	var res Result
	for i, ev := range s.Events {
		if err := ctx.Err(); err != nil {
			res.Aliases = p.Aliases()
			return res, err
		}
		if err := p.apply(ev); err != nil {
			res.Aliases = p.Aliases()
			return res, errors.Wrap(errors.ErrCodeInvalidScript, err, "event %d (%s)", i, ev.Kind)
		}
		res.Applied++
		p.logger.Debug("event applied", "index", i, "kind", ev.Kind)
	}
	res.Aliases = p.Aliases()
	return res, nil
}

// Resolve maps an alias to its item id. Anything else is returned unchanged.
func (p *Player) Resolve(ref string) string {
	if id, ok := p.aliases[ref]; ok {
		return id
	}
	return ref
}

// Aliases returns a copy of the alias table.
func (p *Player) Aliases() map[string]string {
	return maps.Clone(p.aliases)
}

func (p *Player) device(ev Event) geom.Point {
	pt := geom.Pt(ev.X, ev.Y)
	if ev.World {
		return p.c.Viewport().ToDevice(pt)
	}
	return pt
}

func (p *Player) apply(ev Event) error {
	c := p.c
	switch ev.Kind {
	case KindDrop:
		t, err := part.ParseType(ev.Type)
		if err != nil {
			return err
		}
		it, err := c.Drop(t, p.device(ev))
		if err != nil {
			return err
		}
		if ev.As != "" {
			p.aliases[ev.As] = it.ID
		}
	case KindDown:
		button, _ := parseButton(ev.Button)
		mods, _ := parseMods(ev.Mods)
		at := p.device(ev)
		target := p.Resolve(ev.Target)
		if target == "" {
			target, _ = c.HitTest(at)
		}
		c.PointerDown(at, button, mods, target)
	case KindMove:
		c.PointerMove(p.device(ev))
	case KindUp:
		c.PointerUp()
	case KindLeave:
		c.PointerLeave()
	case KindWheel:
		mods, _ := parseMods(ev.Mods)
		c.Wheel(ev.DX, ev.DY, mods)
	case KindUpdate:
		return c.Update(p.Resolve(ev.Target), part.Patch{
			X:        ev.SetX,
			Y:        ev.SetY,
			Rotation: ev.Rotation,
			Fields:   ev.Fields,
		})
	case KindAddSegment:
		return c.AddSegment(p.Resolve(ev.Target))
	case KindRemoveSegment:
		return c.RemoveSegment(p.Resolve(ev.Target), ev.Index)
	case KindSetSegment:
		return c.ResizeSegment(p.Resolve(ev.Target), ev.Index, ev.Length, ev.Diameter)
	case KindDelete:
		c.Delete(p.Resolve(ev.Target))
	case KindSelect:
		c.Select(p.Resolve(ev.Target))
	case KindZoomIn:
		c.ZoomIn()
	case KindZoomOut:
		c.ZoomOut()
	case KindReset:
		c.ResetView()
	case KindSnap:
		if ev.Enabled != nil {
			c.SetSnapEnabled(*ev.Enabled)
		}
	default:
		return errors.New(errors.ErrCodeInvalidScript, "unknown kind %q", ev.Kind)
	}
	return nil
}
