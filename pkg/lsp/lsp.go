package lsp

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/sourcegraph/jsonrpc2"
)

type LSP struct {
	handler jsonrpc2.Handler
	logger  *log.Logger
	stream  io.ReadWriteCloser
}

// New creates a server speaking over stdio.
func New(handler jsonrpc2.Handler, logger *log.Logger) *LSP {
	return &LSP{handler: handler, logger: logger, stream: stdrwc{}}
}

// WithStream replaces stdio with another transport.
func (l *LSP) WithStream(stream io.ReadWriteCloser) *LSP {
	l.stream = stream
	return l
}

func (l *LSP) Start(ctx context.Context) <-chan struct{} {
	return jsonrpc2.NewConn(
		ctx,
		jsonrpc2.NewBufferedStream(l.stream, jsonrpc2.VSCodeObjectCodec{}),
		l.handler,
		jsonrpc2.LogMessages(l.logger),
	).DisconnectNotify()
}

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}

	return os.Stdout.Close()
}
