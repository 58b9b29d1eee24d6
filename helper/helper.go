package helper

import (
	"strings"
)

// SplitList splits a comma separated value, trims every item and drops blanks.
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	return items
}

// TrimList trims every item and drops blanks.
func TrimList(list []string) []string {
	var items []string
	for i := range list {
		item := strings.TrimSpace(list[i])
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

type Set map[string]struct{}

func NewSet(items []string) Set {
	s := make(Set, len(items))
	for i := range items {
		s[items[i]] = struct{}{}
	}
	return s
}

func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}
