package domain

// KeyPrefix namespaces every key the service writes to the KV store.
const KeyPrefix = "triage:"

// Limits applied to every analysis regardless of configuration.
const (
	// DefaultMaxKeywords is the default token budget of a search key.
	DefaultMaxKeywords = 8
	// DefaultMaxEvidence caps related items and doc references per request.
	DefaultMaxEvidence = 3
	// DefaultExcerptLength caps excerpt and annotation length in responses.
	DefaultExcerptLength = 200
	// DefaultSearchTerm is used when keyword extraction yields nothing.
	DefaultSearchTerm = "CAST"
)
