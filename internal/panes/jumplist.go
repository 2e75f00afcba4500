package panes

import "canon-tui/internal/ref"

const maxJumpEntries = 100

// jumpList is vim-style navigation history. Big jumps (goto, chapter and
// book navigation, cross-reference and search-hit jumps) are recorded;
// verse-by-verse movement is not.
type jumpList struct {
	entries []ref.Address
	cursor  int
}

func newJumpList() jumpList {
	return jumpList{cursor: -1}
}

// record stores the address the user is jumping away from. Any forward
// history past the cursor is discarded.
func (j *jumpList) record(a ref.Address) {
	if len(j.entries) > 0 && j.cursor < len(j.entries)-1 {
		j.entries = j.entries[:j.cursor+1]
	}
	j.entries = append(j.entries, a)
	if len(j.entries) > maxJumpEntries {
		j.entries = j.entries[len(j.entries)-maxJumpEntries:]
	}
	j.cursor = len(j.entries) - 1
}

// back steps towards older entries. When leaving the end of the list the
// current address is saved first so forward can return to it.
func (j *jumpList) back(current ref.Address) (ref.Address, bool) {
	if len(j.entries) == 0 {
		return ref.Address{}, false
	}
	if j.cursor == len(j.entries)-1 && j.entries[len(j.entries)-1] != current {
		j.entries = append(j.entries, current)
		j.cursor = len(j.entries) - 1
	}
	if j.cursor <= 0 {
		return ref.Address{}, false
	}
	j.cursor--
	return j.entries[j.cursor], true
}

// forward steps towards newer entries.
func (j *jumpList) forward() (ref.Address, bool) {
	if len(j.entries) == 0 || j.cursor >= len(j.entries)-1 {
		return ref.Address{}, false
	}
	j.cursor++
	return j.entries[j.cursor], true
}
