package domain

import (
	"fmt"
	"sort"
)

// Cluster is a group of topics discussed as one item
type Cluster struct {
	ID     int      `json:"id"`
	Topics []string `json:"topics"`
	Votes  int      `json:"votes"`
}

// SortByVotes orders clusters by descending vote count, keeping the
// original order between clusters with equal votes. The input is not
// modified.
func SortByVotes(clusters []Cluster) []Cluster {
	out := make([]Cluster, len(clusters))
	copy(out, clusters)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Votes > out[j].Votes
	})
	return out
}

// VoteLabel renders a vote count for display
func VoteLabel(votes int) string {
	if votes == 1 {
		return "1 vote"
	}
	return fmt.Sprintf("%d votes", votes)
}
