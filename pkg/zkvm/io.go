package zkvm

import (
	"encoding/binary"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stskeeps/risc0/internal/zkp/executor"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// hostIO is the default IoHandler (spec.md 4.9): it accumulates every
// COMMIT into the guest's journal, logs LOG lines through zerolog, turns a
// guest FAULT into a GuestFault error, and answers SENDRECV with whatever
// channel handler the caller registered (or an empty reply if none).
type hostIO struct {
	logger   zerolog.Logger
	journal  []byte
	channels map[uint32]func([]byte) ([]byte, error)
}

// NewIO returns the default host I/O handler. Register per-channel
// SENDRECV responders with OnChannel before passing it to Prove.
func NewIO() *hostIO {
	return &hostIO{logger: log.Logger, channels: make(map[uint32]func([]byte) ([]byte, error))}
}

// WithLogger replaces the zerolog.Logger used for guest LOG output.
func (h *hostIO) WithLogger(l zerolog.Logger) *hostIO {
	h.logger = l
	return h
}

// OnChannel registers a responder for a SENDRECV channel number.
func (h *hostIO) OnChannel(channel uint32, fn func([]byte) ([]byte, error)) *hostIO {
	h.channels[channel] = fn
	return h
}

// Journal returns the bytes accumulated across every COMMIT call so far.
func (h *hostIO) Journal() []byte { return append([]byte(nil), h.journal...) }

func (h *hostIO) OnCommit(words []uint32) error {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], w)
	}
	h.journal = append(h.journal, buf...)
	return nil
}

func (h *hostIO) OnFault(msg string) error {
	return zkerr.GuestFaultf("guest fault: %s", msg)
}

func (h *hostIO) OnSendRecv(channel uint32, data []byte) ([]byte, error) {
	fn, ok := h.channels[channel]
	if !ok {
		return nil, nil
	}
	return fn(data)
}

func (h *hostIO) OnLog(cycle uint32, msg string) {
	h.logger.Debug().Uint32("cycle", cycle).Msg(msg)
}

var _ executor.IoHandler = (*hostIO)(nil)
