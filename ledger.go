package text2img

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// DefaultLedgerFlushSize is how many completed items are buffered
// before a ledger write. Batched flushes bound write amplification; a
// crash loses at most one unflushed batch, never written image files.
const DefaultLedgerFlushSize = 100

// RunLedger is the append-only JSONL record of completed items for a
// batch run. It is a performance and observability aid for resumption:
// the per-item output directory remains the authoritative completion
// marker. Only the orchestrating goroutine writes to it.
type RunLedger struct {
	file      *os.File
	buf       []BatchItem
	flushSize int
}

// OpenLedger opens (or creates) the ledger file for appending.
// flushSize <= 0 selects DefaultLedgerFlushSize.
func OpenLedger(path string, flushSize int) (*RunLedger, error) {
	if flushSize <= 0 {
		flushSize = DefaultLedgerFlushSize
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 G302 -- ledger path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerOpen, err)
	}
	return &RunLedger{file: f, flushSize: flushSize}, nil
}

// Append buffers one completed item, flushing when the buffer reaches
// the flush size.
func (l *RunLedger) Append(item BatchItem) error {
	l.buf = append(l.buf, item)
	if len(l.buf) >= l.flushSize {
		return l.Flush()
	}
	return nil
}

// Flush writes all buffered items as JSON lines.
func (l *RunLedger) Flush() error {
	if len(l.buf) == 0 {
		return nil
	}
	w := bufio.NewWriter(l.file)
	for _, item := range l.buf {
		line, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	l.buf = l.buf[:0]
	return nil
}

// Close flushes any remaining buffer and closes the file.
func (l *RunLedger) Close() error {
	flushErr := l.Flush()
	closeErr := l.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// LoadProcessedIDs reads identifiers already recorded in a ledger file.
// A missing file means nothing was processed; unparseable lines are
// skipped, not fatal, so a torn final line never blocks recovery.
func LoadProcessedIDs(path string) map[string]struct{} {
	ids := make(map[string]struct{})
	f, err := os.Open(path) // #nosec G304 -- ledger path is user-provided
	if err != nil {
		return ids
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var item BatchItem
		if err := json.Unmarshal(scanner.Bytes(), &item); err != nil {
			continue
		}
		if item.Identifier != "" {
			ids[item.Identifier] = struct{}{}
		}
	}
	return ids
}
