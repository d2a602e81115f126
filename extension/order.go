// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package extension

import (
	"cmp"
	"slices"

	goset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/extslot/internal/pointer"
)

const unranked = -1

// AssignedIDs returns the ordered extension ids a slot instance renders.
//
// Candidates are the attached ids followed by the ids the instance added,
// without the ids it removed. Each id appears once, at its first position.
// Candidates are then stably sorted by rank: the position of the id in the
// instance order when it is there, otherwise the order of its registration.
// Ids without any rank keep their relative position after all ranked ones.
//
// A nil instance is treated as an instance without configuration.
func AssignedIDs(state *State, instance *SlotInstance, attachedIDs []string) []string {
	if instance == nil {
		instance = &SlotInstance{}
	}

	removed := goset.NewThreadUnsafeSet(instance.RemovedIDs...)
	seen := goset.NewThreadUnsafeSetWithSize[string](len(attachedIDs) + len(instance.AddedIDs))
	candidates := make([]string, 0, len(attachedIDs)+len(instance.AddedIDs))
	for _, id := range slices.Concat(attachedIDs, instance.AddedIDs) {
		if removed.Contains(id) || !seen.Add(id) {
			continue
		}
		candidates = append(candidates, id)
	}

	positions := make(map[string]int, len(instance.IDOrder))
	for index, id := range instance.IDOrder {
		if _, ok := positions[id]; !ok {
			positions[id] = index
		}
	}

	ranks := make(map[string]int, len(candidates))
	for _, id := range candidates {
		ranks[id] = rankOf(state, positions, id)
	}

	slices.SortStableFunc(candidates, func(a, b string) int {
		left, right := ranks[a], ranks[b]
		switch {
		case left == unranked && right == unranked:
			return 0
		case left == unranked:
			return 1
		case right == unranked:
			return -1
		default:
			return cmp.Compare(left, right)
		}
	})
	return candidates
}

func rankOf(state *State, positions map[string]int, id string) int {
	if position, ok := positions[id]; ok {
		return position
	}
	if state == nil {
		return unranked
	}
	registration, ok := state.Registration(id)
	if !ok {
		return unranked
	}
	if order := pointer.Deref(registration.Order, unranked); order >= 0 {
		return order
	}
	return unranked
}
