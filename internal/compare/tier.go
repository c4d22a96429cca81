package compare

// Tier is the classification of a source commit relative to the target history.
type Tier int

// Tiers in priority order; the first satisfied predicate wins.
const (
	TierExact Tier = iota
	TierMessage
	TierTimestamp
	TierUnmatched
)

// Tiers lists every tier in priority order.
func Tiers() []Tier {
	return []Tier{TierExact, TierMessage, TierTimestamp, TierUnmatched}
}

// Marker returns the one-character prefix printed in front of a record.
func (t Tier) Marker() string {
	switch t {
	case TierExact:
		return "="
	case TierMessage:
		return "~"
	case TierTimestamp:
		return "&"
	default:
		return "+"
	}
}

// String returns a string representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierMessage:
		return "message-match"
	case TierTimestamp:
		return "timestamp-match"
	default:
		return "unmatched"
	}
}

// Summary counts records per tier.
type Summary struct {
	Exact     int `json:"exact"`
	Message   int `json:"messageMatch"`
	Timestamp int `json:"timestampMatch"`
	Unmatched int `json:"unmatched"`
}

// Total returns the number of classified commits.
func (s Summary) Total() int {
	return s.Exact + s.Message + s.Timestamp + s.Unmatched
}

// Count returns the number of records of a tier.
func (s Summary) Count(t Tier) int {
	switch t {
	case TierExact:
		return s.Exact
	case TierMessage:
		return s.Message
	case TierTimestamp:
		return s.Timestamp
	default:
		return s.Unmatched
	}
}

// Summarize tallies records per tier.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Tier {
		case TierExact:
			s.Exact++
		case TierMessage:
			s.Message++
		case TierTimestamp:
			s.Timestamp++
		default:
			s.Unmatched++
		}
	}
	return s
}
