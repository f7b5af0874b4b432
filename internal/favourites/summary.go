package favourites

import (
	"sort"
	"strings"
)

const summaryTopN = 5

// Summary aggregates a customer's favourites.
type Summary struct {
	Count       int      `json:"count"`
	TopSubjects []string `json:"top_subjects"`
	TopAuthors  []string `json:"top_authors"`
}

// Summary counts the customer's favourites and ranks the subjects and
// authors that appear most often across them.
func (m *Manager) Summary(customerID uint) (*Summary, error) {
	books, total, err := m.List(customerID, 0, 0)
	if err != nil {
		return nil, err
	}

	subjects := make(map[string]int)
	authors := make(map[string]int)
	for _, book := range books {
		for _, s := range book.Subjects {
			if s = strings.TrimSpace(s); s != "" {
				subjects[s]++
			}
		}
		for _, a := range book.Authors {
			if a = strings.TrimSpace(a); a != "" {
				authors[a]++
			}
		}
	}

	return &Summary{
		Count:       int(total),
		TopSubjects: topN(subjects, summaryTopN),
		TopAuthors:  topN(authors, summaryTopN),
	}, nil
}

// topN ranks by descending count, breaking ties alphabetically.
func topN(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
