package models

// Stats are the aggregate figures derived from one cache snapshot.
type Stats struct {
	TotalCompounds int
	VerifiedData   int
	AvgActivity    float64
	RecentUploads  int
}

// HistoryItem is one of the active account's own submissions.
type HistoryItem struct {
	Name      string
	Timestamp int64
	Verified  bool
}

// Decryption is the outcome of a decrypt-and-verify call.
type Decryption struct {
	RecordID string
	Value    int64

	// AlreadyVerified is set when no oracle round trip was needed or when a
	// concurrent verification landed first.
	AlreadyVerified bool
}
