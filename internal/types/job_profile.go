// Package types provides type definitions for structured data used throughout the career-news pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// JobProfile is the (job group, job role) pair that drives keyword generation and relevance judgment.
type JobProfile struct {
	JobGroup string `json:"job_group" validate:"required"`
	JobRole  string `json:"job_role"`
}

// Key returns a stable cache key for the profile.
func (p JobProfile) Key() string {
	return strings.ToLower(strings.TrimSpace(p.JobGroup)) + "|" + strings.ToLower(strings.TrimSpace(p.JobRole))
}

// KeywordSet is an ordered, duplicate-free list of search keywords resolved for one profile.
type KeywordSet []string

// Contains reports whether kw is part of the set.
func (s KeywordSet) Contains(kw string) bool {
	for _, k := range s {
		if k == kw {
			return true
		}
	}
	return false
}
