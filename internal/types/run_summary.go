package types

import "fmt"

// RunSummary aggregates the counters of one pipeline run.
type RunSummary struct {
	Collected         int `json:"collected"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	FilteredOut       int `json:"filtered_out"`
	Analyzed          int `json:"analyzed"`
	Errors            int `json:"errors"`
}

// Balanced reports whether every collected candidate is accounted for exactly once.
func (s RunSummary) Balanced() bool {
	return s.Collected == s.DuplicatesRemoved+s.FilteredOut+s.Analyzed+s.Errors
}

// Add accumulates another summary into s.
func (s *RunSummary) Add(other RunSummary) {
	s.Collected += other.Collected
	s.DuplicatesRemoved += other.DuplicatesRemoved
	s.FilteredOut += other.FilteredOut
	s.Analyzed += other.Analyzed
	s.Errors += other.Errors
}

func (s RunSummary) String() string {
	return fmt.Sprintf("collected=%d duplicates=%d filtered=%d analyzed=%d errors=%d",
		s.Collected, s.DuplicatesRemoved, s.FilteredOut, s.Analyzed, s.Errors)
}
