// pkg/util/generic_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"slices"
	"strconv"
	"testing"
)

func TestMapFilterSlice(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	strs := MapSlice(s, strconv.Itoa)
	if !slices.Equal(strs, []string{"1", "2", "3", "4", "5"}) {
		t.Errorf("MapSlice gave %v", strs)
	}
	if m := MapSlice([]int(nil), strconv.Itoa); len(m) != 0 {
		t.Errorf("MapSlice of nil gave %v", m)
	}

	odd := FilterSlice(s, func(v int) bool { return v%2 == 1 })
	if !slices.Equal(odd, []int{1, 3, 5}) {
		t.Errorf("FilterSlice gave %v", odd)
	}
}

func TestSortedMapKeys(t *testing.T) {
	m := map[string]int{"range": 1, "bearing": 2, "fix": 3}
	if keys := SortedMapKeys(m); !slices.Equal(keys, []string{"bearing", "fix", "range"}) {
		t.Errorf("SortedMapKeys gave %v", keys)
	}
}

func TestSelect(t *testing.T) {
	if Select(true, "a", "b") != "a" || Select(false, 1, 2) != 2 {
		t.Errorf("Select returned the wrong value")
	}
}
