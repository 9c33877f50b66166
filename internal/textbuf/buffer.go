// Package textbuf holds the document text shared by the editor and the autosave worker.
package textbuf

import "sync"

// Buffer is a mutex-guarded document string.
//
// Every access is exclusive; there is no reader/writer split. Callers that need the text for
// I/O must take a Snapshot and release the lock before touching the disk.
type Buffer struct {
	mu   sync.Mutex
	text string
	rev  uint64
}

func New(initial string) *Buffer {
	return &Buffer{text: initial}
}

// Snapshot returns the current content. Strings are immutable, so the result stays valid after
// later writes.
func (b *Buffer) Snapshot() string {
	b.mu.Lock()
	s := b.text
	b.mu.Unlock()
	return s
}

// SnapshotRev returns the content together with the revision it belongs to.
func (b *Buffer) SnapshotRev() (string, uint64) {
	b.mu.Lock()
	s, rev := b.text, b.rev
	b.mu.Unlock()
	return s, rev
}

func (b *Buffer) Replace(s string) {
	b.mu.Lock()
	if s != b.text {
		b.text = s
		b.rev++
	}
	b.mu.Unlock()
}

// Update runs fn with exclusive access and stores its result.
// fn must not block or call back into the Buffer.
func (b *Buffer) Update(fn func(cur string) string) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	next := fn(b.text)
	if next != b.text {
		b.text = next
		b.rev++
	}
}

// Revision increases by one on every write that changed the content.
func (b *Buffer) Revision() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rev
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.text)
}
