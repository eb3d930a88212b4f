package models

import "sync"

// QueueEntry pairs a queued payload with its sequence number. Sequence
// numbers are monotonically increasing per queue and never reused, so the
// flush path can name exactly the entries it delivered.
type QueueEntry struct {
	Seq     uint64
	Payload SyncPayload
}

// OfflineQueue is a bounded FIFO of payloads that failed delivery. On
// overflow the oldest entry is dropped — the newest payloads carry the most
// relevant context.
// Thread-safe: all public methods acquire q.mu internally.
type OfflineQueue struct {
	mu      sync.Mutex
	entries []QueueEntry
	max     int
	nextSeq uint64
}

func NewOfflineQueue() *OfflineQueue {
	return &OfflineQueue{max: defaultMaxBufferSize}
}

// SetMax applies a new capacity, trimming the oldest entries if the queue is
// already over it.
func (q *OfflineQueue) SetMax(max int) {
	if max < 1 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.max = max
	q.trim()
}

// Push appends a payload, dropping the oldest entry when the queue is at
// capacity. Returns the number of entries dropped.
func (q *OfflineQueue) Push(p SyncPayload) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextSeq++
	q.entries = append(q.entries, QueueEntry{Seq: q.nextSeq, Payload: p})
	return q.trim()
}

func (q *OfflineQueue) trim() int {
	dropped := 0
	for len(q.entries) > q.max {
		q.entries = q.entries[1:]
		dropped++
	}
	return dropped
}

func (q *OfflineQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Items returns a copy of the queued payloads, oldest first.
func (q *OfflineQueue) Items() []SyncPayload {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]SyncPayload, len(q.entries))
	for i := range q.entries {
		out[i] = q.entries[i].Payload
	}
	return out
}

// Entries returns a copy of the queued entries with their sequence numbers,
// oldest first.
func (q *OfflineQueue) Entries() []QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]QueueEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Remove deletes the entries with the given sequence numbers and returns how
// many were actually removed. Entries already gone — dropped by overflow
// trimming after the caller snapshotted them — are ignored. Entries pushed
// after the snapshot keep their place.
func (q *OfflineQueue) Remove(seqs []uint64) int {
	if len(seqs) == 0 {
		return 0
	}
	drop := make(map[uint64]struct{}, len(seqs))
	for _, seq := range seqs {
		drop[seq] = struct{}{}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	kept := make([]QueueEntry, 0, len(q.entries))
	for _, e := range q.entries {
		if _, ok := drop[e.Seq]; ok {
			continue
		}
		kept = append(kept, e)
	}
	removed := len(q.entries) - len(kept)
	q.entries = kept
	return removed
}

// Replace swaps the queue content, preserving the order of the given slice
// and assigning fresh sequence numbers. Used when restoring a persisted
// queue.
func (q *OfflineQueue) Replace(items []SyncPayload) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = make([]QueueEntry, 0, len(items))
	for _, p := range items {
		q.nextSeq++
		q.entries = append(q.entries, QueueEntry{Seq: q.nextSeq, Payload: p})
	}
	q.trim()
}
