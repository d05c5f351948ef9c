package kernel

import (
	"context"
	"errors"
	"sync"

	"github.com/go-zeromq/zmq4"
	"github.com/samber/oops"

	"github.com/wabznasm/wabznasm/lib/config"
	"github.com/wabznasm/wabznasm/lib/wire"
)

// runState is the dispatch loop's state machine: it runs until a
// shutdown_request moves it to terminated, the only transition out.
type runState int

const (
	stateRunning runState = iota
	stateTerminated
)

// shellSocket is the slice of zmq4.Socket the dispatch loop needs; tests
// swap in an in-memory fake.
type shellSocket interface {
	Recv() (zmq4.Msg, error)
	Send(zmq4.Msg) error
}

// Runner binds the three socket roles and orchestrates the long-lived
// tasks: the request dispatch loop, the heartbeat echo loop, and the iopub
// publisher. Each task owns exactly one socket; the only cross-task edge is
// the publisher's bounded queue.
type Runner struct {
	cfg     *config.ConnectionInfo
	signer  *wire.Signer
	handler *Handler
	pub     *Publisher
	state   runState

	quit     chan struct{}
	stopOnce sync.Once
}

// NewRunner validates the connection info and builds a runner. An
// unsupported signature scheme fails here, before any socket is bound.
func NewRunner(cfg *config.ConnectionInfo) (*Runner, error) {
	signer, err := wire.NewSigner(cfg.SignatureScheme, []byte(cfg.Key))
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		signer: signer,
		quit:   make(chan struct{}),
	}, nil
}

// Stop asks a running kernel to exit. Safe to call from any goroutine and
// more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		log.Debug("Runner stop requested")
		close(r.quit)
	})
}

// Run binds the sockets, starts the heartbeat and publisher tasks, and
// drives the dispatch loop until a shutdown_request arrives or Stop is
// called. Bind failures are fatal and returned; everything after startup is
// handled in-loop.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-r.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	shell := zmq4.NewRouter(ctx)
	defer shell.Close()
	if err := shell.Listen(r.cfg.ShellURL()); err != nil {
		return oops.With("endpoint", r.cfg.ShellURL()).Wrapf(err, "bind shell socket")
	}
	log.WithField("endpoint", r.cfg.ShellURL()).Debug("Shell socket bound")

	iopub := zmq4.NewPub(ctx)
	defer iopub.Close()
	if err := iopub.Listen(r.cfg.IOPubURL()); err != nil {
		return oops.With("endpoint", r.cfg.IOPubURL()).Wrapf(err, "bind iopub socket")
	}
	log.WithField("endpoint", r.cfg.IOPubURL()).Debug("IOPub socket bound")

	hb := zmq4.NewRep(ctx)
	defer hb.Close()
	if err := hb.Listen(r.cfg.HBURL()); err != nil {
		return oops.With("endpoint", r.cfg.HBURL()).Wrapf(err, "bind heartbeat socket")
	}
	log.WithField("endpoint", r.cfg.HBURL()).Debug("Heartbeat socket bound")

	r.pub = NewPublisher(iopub, DefaultQueueCapacity)
	r.pub.Start()
	defer r.pub.Close()
	r.handler = NewHandler(r.pub, r.signer)

	go heartbeat(hb)

	// Announce liveness before accepting requests, the way established
	// kernels do on startup.
	startup := wire.NewHeader(wire.MsgTypeStatus, "", "kernel", wire.ProtocolVersion)
	r.handler.emit(wire.Status{ExecutionState: wire.StateBusy}, &startup)
	r.handler.emit(wire.Status{ExecutionState: wire.StateIdle}, &startup)
	log.Debug("Kernel ready for connections")

	r.state = stateRunning
	for r.state == stateRunning {
		msg, err := shell.Recv()
		if err != nil {
			if ctx.Err() != nil {
				log.Debug("Shell receive loop stopped")
				return nil
			}
			return oops.Wrapf(err, "receive on shell socket")
		}
		// Fail closed: malformed or forged traffic is dropped with no reply.
		parsed, err := wire.Parse(msg.Frames, r.signer)
		if err != nil {
			log.WithError(err).Warn("Dropping unparseable shell message")
			continue
		}
		r.dispatch(shell, parsed)
	}
	log.Debug("Kernel terminated by shutdown request")
	return nil
}

// dispatch handles one parsed request and sends the reply. A
// shutdown_request is the only thing that moves the state machine to
// terminated.
func (r *Runner) dispatch(sock shellSocket, msg *wire.Message) {
	parent := msg.Header
	switch content := msg.Content.(type) {
	case wire.KernelInfoRequest:
		reply := r.handler.KernelInfo(&parent)
		r.sendReply(sock, msg, reply)

	case wire.ExecuteRequest:
		reply := r.handler.ExecuteRequest(content, &parent)
		r.sendReply(sock, msg, reply)

	case wire.ShutdownRequest:
		reply := r.handler.ShutdownRequest(content, &parent)
		r.sendReply(sock, msg, reply)
		r.state = stateTerminated

	case wire.InterruptRequest:
		// Acknowledged but not enforced: nothing in flight is cancelled.
		log.Warn("Interrupt acknowledged; in-flight execution is not cancelled")
		r.sendReply(sock, msg, wire.InterruptReply{Status: wire.StatusOK})

	default:
		log.WithField("msg_type", msg.Header.MsgType).Warn("Ignoring unhandled message type")
	}
}

// sendReply builds, signs, and sends a reply routed back over the request's
// identity frames. Send failures after startup are logged and swallowed.
func (r *Runner) sendReply(sock shellSocket, request *wire.Message, content wire.Content) {
	header := wire.ChildHeader(&request.Header, content.MessageType())
	frames, err := wire.Construct(request.Identities, header, &request.Header, nil, content, r.signer)
	if err != nil {
		log.WithError(err).WithField("msg_type", header.MsgType).
			Error("Failed to construct reply")
		return
	}
	if err := sock.Send(zmq4.NewMsgFrom(frames...)); err != nil {
		log.WithError(err).WithField("msg_type", header.MsgType).
			Error("Failed to send reply")
	}
}

// heartbeat echoes whatever it receives. Any socket error ends this task
// and only this task; liveness probing stops but the kernel keeps serving.
func heartbeat(sock zmq4.Socket) {
	for {
		msg, err := sock.Recv()
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.WithError(err).Warn("Heartbeat receive failed, stopping heartbeat")
			}
			return
		}
		if err := sock.Send(msg); err != nil {
			log.WithError(err).Warn("Heartbeat send failed, stopping heartbeat")
			return
		}
	}
}
