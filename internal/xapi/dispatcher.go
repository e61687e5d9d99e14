package xapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/internal/infra"
)

// minCommandInterval is the protocol etiquette floor: no exchange may start
// less than this after the start of the previous one, across all command
// types, login and recovery traffic included.
const minCommandInterval = 200 * time.Millisecond

// session is the transport surface the dispatcher drives. *Session satisfies
// it; tests substitute scripted fakes.
type session interface {
	Login(ctx context.Context, creds Credentials) (Response, error)
	Relogin(ctx context.Context) (Response, error)
	Logout(ctx context.Context) (Response, error)
	Exchange(ctx context.Context, cmd Command) (Response, error)
	Status() Status
}

// dispatcher is the single gate every command passes through: it paces
// exchanges, recovers exactly once from a transport failure by re-running
// login, and classifies server rejections into typed errors.
type dispatcher struct {
	sess  session
	pacer *infra.Pacer
	log   *slog.Logger
}

func newDispatcher(sess session, pacer *infra.Pacer, log *slog.Logger) *dispatcher {
	return &dispatcher{sess: sess, pacer: pacer, log: log}
}

// dispatch runs one command end to end and returns the raw returnData (nil
// for pure acknowledgements). A transport failure triggers one re-login and
// one retry of the same command; a second transport failure is fatal.
func (d *dispatcher) dispatch(ctx context.Context, cmd Command) (json.RawMessage, error) {
	if err := d.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := d.sess.Exchange(ctx, cmd)
	if err != nil {
		if !domain.IsTransport(err) {
			return nil, err
		}
		d.log.Warn("⚠️ transport failure, re-running login", "command", cmd.Name, "error", err)
		if err := d.relogin(ctx); err != nil {
			return nil, err
		}
		if err := d.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err = d.sess.Exchange(ctx, cmd)
		if err != nil {
			return nil, err
		}
	}
	return classify(cmd.Name, resp)
}

func (d *dispatcher) relogin(ctx context.Context) error {
	if err := d.pacer.Wait(ctx); err != nil {
		return err
	}
	resp, err := d.sess.Relogin(ctx)
	if err != nil {
		return err
	}
	if !resp.Status {
		return &domain.CommandFailedError{Command: cmdLogin, Code: resp.ErrorCode, Descr: resp.ErrorDescr}
	}
	d.log.Info("🔁 session re-established")
	return nil
}

// classify splits the response into payload or typed rejection. The error
// carries the server's code verbatim so callers can match on it.
func classify(command string, resp Response) (json.RawMessage, error) {
	if !resp.Status {
		return nil, &domain.CommandFailedError{Command: command, Code: resp.ErrorCode, Descr: resp.ErrorDescr}
	}
	return resp.ReturnData, nil
}
