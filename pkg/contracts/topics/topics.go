package topics

const (
	// Quotes
	QuoteSnapshots = "quote_snapshots"
)
