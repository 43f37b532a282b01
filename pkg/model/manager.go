package model

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
)

// SemanticInfo is the most recent completed parse of a file together with the
// editor revision it was computed from.
type SemanticInfo struct {
	Revision int
	Doc      *cplusplus.Document
}

// Listener is called from the parse goroutine after each completed parse.
type Listener func(fileName string, info SemanticInfo)

type request struct {
	fileName string
	text     string
	revision int
}

// Manager parses documents in the background and keeps the latest semantic
// info for each of them. It is passed to its users explicitly.
type Manager struct {
	parser    *cplusplus.Parser
	listeners []Listener

	// notifyMu orders listener calls; it is taken before mu, never after.
	notifyMu sync.Mutex

	mu       sync.RWMutex
	infos    map[string]SemanticInfo
	snapshot *cplusplus.Snapshot
	pending  map[string]request

	wake chan struct{}
}

func NewManager(parser *cplusplus.Parser, listeners ...Listener) *Manager {
	return &Manager{
		parser:    parser,
		listeners: listeners,
		infos:     make(map[string]SemanticInfo),
		snapshot:  cplusplus.NewSnapshot(),
		pending:   make(map[string]request),
		wake:      make(chan struct{}, 1),
	}
}

// Run processes scheduled parses until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.wake:
		}

		m.mu.Lock()
		batch := m.pending
		m.pending = make(map[string]request)
		m.mu.Unlock()

		for _, r := range batch {
			if _, err := m.Parse(ctx, r.fileName, r.text, r.revision); err != nil {
				slog.Error("Failed to parse", "file", r.fileName, "revision", r.revision, "error", err)
			}
		}
	}
}

// Schedule queues a parse of text for the background goroutine. Only the last
// request per file is kept.
func (m *Manager) Schedule(fileName string, text string, revision int) {
	m.mu.Lock()
	m.pending[fileName] = request{fileName: fileName, text: text, revision: revision}
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Parse parses text on the calling goroutine and publishes the result unless a
// newer revision has already been stored.
func (m *Manager) Parse(ctx context.Context, fileName string, text string, revision int) (*cplusplus.Document, error) {
	doc, err := m.parser.Parse(ctx, fileName, []byte(text), revision)
	if err != nil {
		return nil, err
	}
	info := SemanticInfo{Revision: revision, Doc: doc}

	m.mu.Lock()
	current, ok := m.infos[fileName]
	if ok && current.Revision > revision {
		m.mu.Unlock()
		slog.Debug("Dropping outdated parse", "file", fileName, "revision", revision, "current", current.Revision)
		return doc, nil
	}
	m.infos[fileName] = info
	m.snapshot = m.snapshot.With(doc)
	m.mu.Unlock()

	slog.Debug("Parsed document", "file", fileName, "revision", revision, "tokens", doc.TranslationUnit().TokenCount())
	m.notify(fileName, info)
	return doc, nil
}

// notify calls the listeners unless a later parse has replaced info, so
// listeners never see revisions go backwards.
func (m *Manager) notify(fileName string, info SemanticInfo) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	if latest, ok := m.SemanticInfo(fileName); !ok || latest.Doc != info.Doc {
		return
	}
	for _, l := range m.listeners {
		l(fileName, info)
	}
}

func (m *Manager) SemanticInfo(fileName string) (SemanticInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.infos[fileName]
	return info, ok
}

// Snapshot returns the current set of parsed documents. The returned value is
// immutable and can be held indefinitely.
func (m *Manager) Snapshot() *cplusplus.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

func (m *Manager) Remove(fileName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.infos, fileName)
	delete(m.pending, fileName)
	m.snapshot = m.snapshot.Without(fileName)
}
