package domain

// Origin tells which chain a transaction originated on.
type Origin string

const (
	OriginL1 Origin = "L1"
	OriginL2 Origin = "L2"
)

// Status is the lifecycle state of a transaction inside the rollup pipeline.
// Progression is Queued -> Committed -> Finalized; Rejected is an alternate
// terminal state for L2 transactions that fail execution.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusCommitted Status = "committed"
	StatusFinalized Status = "finalized"
	StatusRejected  Status = "rejected"
)

var statusRank = map[Status]int{
	StatusQueued:    0,
	StatusCommitted: 1,
	StatusFinalized: 2,
}

// AtLeastCommitted reports whether the transaction has been included in a
// sequenced block, i.e. a rollup block number exists for it.
func (s Status) AtLeastCommitted() bool {
	return s == StatusCommitted || s == StatusFinalized || s == StatusRejected
}

// MinStatus returns the least-advanced status among the given ones. A batch is
// only as advanced as its slowest member; a single rejected member makes the
// whole batch rejected, since batches execute atomically.
func MinStatus(statuses []Status) Status {
	if len(statuses) == 0 {
		return StatusQueued
	}
	min := StatusFinalized
	for _, s := range statuses {
		if s == StatusRejected {
			return StatusRejected
		}
		if statusRank[s] < statusRank[min] {
			min = s
		}
	}
	return min
}
