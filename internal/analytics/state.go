package analytics

import "strings"

// Bucket classifies a raw state token into one of the mutually exclusive
// lifecycle groups. Tokens are matched case-insensitively; anything outside
// the known set lands in BucketUnclassified and only counts toward totals.
type Bucket int

const (
	BucketUnclassified Bucket = iota
	BucketActive
	BucketCompleted
	BucketRejected
	BucketOutstanding
)

func (b Bucket) String() string {
	switch b {
	case BucketActive:
		return "active"
	case BucketCompleted:
		return "completed"
	case BucketRejected:
		return "rejected"
	case BucketOutstanding:
		return "outstanding"
	default:
		return "unclassified"
	}
}

// ClassifyState maps a raw engine or broker state token to its bucket.
// All state comparisons in the pipeline go through here; downstream code
// operates on the Bucket, not on strings.
func ClassifyState(token string) Bucket {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "active", "open":
		return BucketActive
	case "filled", "closed", "pending-closed":
		return BucketCompleted
	case "rejected", "canceled":
		return BucketRejected
	case "pending", "new":
		return BucketOutstanding
	default:
		return BucketUnclassified
	}
}

// Tokens returns the raw state tokens belonging to a bucket, for store
// queries that filter by state. Unclassified has no token set.
func (b Bucket) Tokens() []string {
	switch b {
	case BucketActive:
		return []string{"active", "open"}
	case BucketCompleted:
		return []string{"filled", "closed", "pending-closed"}
	case BucketRejected:
		return []string{"rejected", "canceled"}
	case BucketOutstanding:
		return []string{"pending", "new"}
	default:
		return nil
	}
}

const pendingToken = "pending"

func isPending(token string) bool {
	return strings.EqualFold(strings.TrimSpace(token), pendingToken)
}
