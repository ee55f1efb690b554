package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

const (
	OpenJobsPattern = "jobs:open:*"
	reviewSummary   = "reviews:summary:"
)

type openJobsKeyInput struct {
	Query    string `json:"q"`
	Location string `json:"location"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// OpenJobsKey hashes the listing query so equivalent searches share a key.
func OpenJobsKey(query, location string, limit, offset int) string {
	b, _ := json.Marshal(openJobsKeyInput{
		Query:    normalize(query),
		Location: normalize(location),
		Limit:    limit,
		Offset:   offset,
	})
	sum := sha256.Sum256(b)
	return "jobs:open:" + hex.EncodeToString(sum[:])
}

func ReviewSummaryKey(companyID string) string {
	return reviewSummary + companyID
}
