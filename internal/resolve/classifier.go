package resolve

import "github.com/rollgate/rollgate/internal/core/domain"

// Classify maps a raw record's execution outcome plus block-finalization
// knowledge into a lifecycle status. A nil success flag means the record has
// not been executed yet (pending, no block number), so the finalization flag
// is irrelevant; false means execution failed, which is terminal regardless
// of finalization.
func Classify(success *bool, blockFinalized bool) domain.Status {
	switch {
	case success == nil:
		return domain.StatusQueued
	case !*success:
		return domain.StatusRejected
	default:
		return statusInBlock(blockFinalized)
	}
}

// statusInBlock is the included-and-successful half of the classifier, also
// used directly for executed L1 operations, which carry no success flag:
// inclusion in a block implies success for them.
func statusInBlock(blockFinalized bool) domain.Status {
	if blockFinalized {
		return domain.StatusFinalized
	}
	return domain.StatusCommitted
}
