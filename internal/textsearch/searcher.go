// Package textsearch implements multi-keyword matching and substitution over
// rune positions using an Aho-Corasick automaton.
//
// Usage is two-phase: add keywords, then Compile. Compilation builds the
// failure links and freezes the automaton; afterwards it is immutable and
// safe for concurrent use.
//
//	s := textsearch.New()
//	s.AddKeyword("bcdef", "X")
//	s.Compile()
//	hits, _ := s.Match("abcdefgh")
package textsearch

import (
	"slices"
	"strings"
	"unicode/utf8"

	"searchapi/internal/apperrors"
)

// rootID is the id of the root node; ids are 1-based so 0 can mean "no node".
const rootID = 1

// Match is one keyword occurrence. Start and End are rune offsets into the
// searched text, half-open [Start, End). Name is the keyword's alias, or the
// keyword itself when none was given.
type Match struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// LineMatch reports one line that contains at least one keyword. Start and
// End are rune offsets of the last hit, relative to the line.
type LineMatch struct {
	Line  string `json:"line"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Entry pairs a keyword with its optional alias.
type Entry struct {
	Keyword string `json:"keyword"`
	Name    string `json:"name,omitempty"`
}

// node is one trie position. letters holds the path from the root while the
// automaton is under construction; Compile drops them and keeps only length.
type node struct {
	letters  []rune
	length   int
	name     string
	terminal bool
}

// transition keys the goto arrows: which node a letter leads to.
type transition struct {
	node   int
	letter rune
}

// Searcher is the keyword automaton. The zero value is not usable; call New.
type Searcher struct {
	nodes    []node
	next     map[transition]int
	fail     map[int]int
	compiled bool
}

// New returns an empty automaton containing only the root node.
func New() *Searcher {
	return &Searcher{
		nodes: []node{{}},
		next:  make(map[transition]int),
		fail:  make(map[int]int),
	}
}

// NewFromEntries builds and compiles an automaton in one step.
func NewFromEntries(entries []Entry) (*Searcher, error) {
	s := New()
	for i, e := range entries {
		if err := s.AddKeyword(e.Keyword, e.Name); err != nil {
			return nil, apperrors.Wrap(apperrors.GetCode(err), err, "entry %d", i)
		}
	}
	if err := s.Compile(); err != nil {
		return nil, err
	}
	return s, nil
}

// AddKeyword inserts a keyword. name aliases the keyword in match and
// substitution output; empty name means the keyword reports itself. Adding
// to a compiled automaton is rejected.
func (s *Searcher) AddKeyword(keyword, name string) error {
	if s.compiled {
		return apperrors.New(apperrors.CodeCompiled, "cannot add keyword to a compiled searcher")
	}
	if keyword == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "empty keyword")
	}

	nodeID := rootID
	letters := make([]rune, 0, utf8.RuneCountInString(keyword))
	for _, letter := range keyword {
		letters = append(letters, letter)
		if next, ok := s.next[transition{nodeID, letter}]; ok {
			nodeID = next
			continue
		}
		s.nodes = append(s.nodes, node{letters: slices.Clone(letters), length: len(letters)})
		next := len(s.nodes)
		s.next[transition{nodeID, letter}] = next
		nodeID = next
	}

	n := &s.nodes[nodeID-1]
	n.terminal = true
	if name != "" {
		n.name = name
	} else {
		n.name = keyword
	}
	return nil
}

// Compile builds the failure links (each node's longest proper suffix that
// is itself a trie path) and freezes the automaton. The per-node letter
// slices are dropped; only their lengths survive, which is all matching
// needs.
func (s *Searcher) Compile() error {
	if s.compiled {
		return apperrors.New(apperrors.CodeCompiled, "searcher already compiled")
	}

	for nodeID := 1; nodeID <= len(s.nodes); nodeID++ {
		letters := s.nodes[nodeID-1].letters
		s.nodes[nodeID-1].letters = nil

		for start := 1; start < len(letters); start++ {
			if target := s.lookup(letters[start:]); target != 0 {
				s.fail[nodeID] = target
				break
			}
		}
	}
	s.compiled = true
	return nil
}

// lookup walks the goto arrows for keyword and returns the final node id,
// or 0 when the path leaves the trie.
func (s *Searcher) lookup(keyword []rune) int {
	nodeID := rootID
	for _, letter := range keyword {
		next, ok := s.next[transition{nodeID, letter}]
		if !ok {
			return 0
		}
		nodeID = next
	}
	return nodeID
}

// step advances the automaton by one hop: the goto arrow when one exists
// (consuming the letter), the failure link otherwise. From the root with no
// arrow the letter is simply consumed.
func (s *Searcher) step(nodeID int, letter rune) (next int, used bool) {
	if next, ok := s.next[transition{nodeID, letter}]; ok {
		return next, true
	}
	if next, ok := s.fail[nodeID]; ok {
		return next, false
	}
	return rootID, nodeID == rootID
}

// Compiled reports whether Compile has run.
func (s *Searcher) Compiled() bool {
	return s.compiled
}

// KeywordCount returns the number of distinct keywords in the automaton.
func (s *Searcher) KeywordCount() int {
	count := 0
	for i := range s.nodes {
		if s.nodes[i].terminal {
			count++
		}
	}
	return count
}

// NodeCount returns the number of trie nodes including the root.
func (s *Searcher) NodeCount() int {
	return len(s.nodes)
}

func (s *Searcher) requireCompiled() error {
	if !s.compiled {
		return apperrors.New(apperrors.CodeNotCompiled, "searcher is not compiled")
	}
	return nil
}

// Match scans text once and reports the keyword occurrences it discovers,
// in scan order. Overlapping hits are reported as the scan traverses them;
// an occurrence fully shadowed by a longer keyword's forward path is not
// re-derived.
func (s *Searcher) Match(text string) ([]Match, error) {
	if err := s.requireCompiled(); err != nil {
		return nil, err
	}

	var out []Match
	nodeID := rootID
	pos := 0
	for _, letter := range text {
		pos++
		for {
			next, used := s.step(nodeID, letter)
			nodeID = next
			n := &s.nodes[nodeID-1]
			if n.terminal {
				if used {
					out = append(out, Match{Name: n.name, Start: pos - n.length, End: pos})
				} else {
					// reached over a failure link: the hit ended
					// at the previous position
					out = append(out, Match{Name: n.name, Start: pos - n.length - 1, End: pos - 1})
				}
			}
			if used {
				break
			}
		}
	}
	return out, nil
}

// MatchLines splits text on \r and \n and reports each line containing at
// least one keyword, with the rune offsets of the line's last hit. Offsets
// are relative to the line.
func (s *Searcher) MatchLines(text string) ([]LineMatch, error) {
	if err := s.requireCompiled(); err != nil {
		return nil, err
	}

	var out []LineMatch
	var line []rune
	found := false
	start, end := 0, 0
	nodeID := rootID
	pos := 0

	flush := func() {
		if found {
			out = append(out, LineMatch{Line: string(line), Start: start, End: end})
		}
		line = line[:0]
		found = false
		nodeID = rootID
		pos = 0
	}

	for _, letter := range text {
		if letter == '\r' || letter == '\n' {
			flush()
			continue
		}
		line = append(line, letter)
		pos++
		for {
			next, used := s.step(nodeID, letter)
			nodeID = next
			n := &s.nodes[nodeID-1]
			if n.terminal {
				if used {
					found, start, end = true, pos-n.length, pos
				} else {
					found, start, end = true, pos-n.length-1, pos-1
				}
			}
			if used {
				break
			}
		}
	}
	flush()
	return out, nil
}

// Substitute replaces every keyword occurrence with its name. When two hits
// overlap and the earlier one has already been committed, the later one is
// dropped; hits sharing a start position keep the longest. Unmatched text is
// copied verbatim.
func (s *Searcher) Substitute(text string) (string, error) {
	if err := s.requireCompiled(); err != nil {
		return "", err
	}

	letters := []rune(text)
	var b strings.Builder
	written := 0 // rune offset up to which letters are already in b
	lastName := ""
	lastStart, lastEnd := 0, 0
	nodeID := rootID
	pos := 0

	commit := func() {
		if lastStart >= written {
			b.WriteString(string(letters[written:lastStart]))
			b.WriteString(lastName)
			written = lastEnd
		}
		// otherwise the hit overlaps an already committed one and is dropped
	}

	for _, letter := range letters {
		pos++
		for {
			next, used := s.step(nodeID, letter)
			nodeID = next
			n := &s.nodes[nodeID-1]
			if n.terminal {
				start, end := pos-n.length, pos
				if !used {
					start, end = start-1, end-1
				}
				if start != lastStart {
					commit()
				}
				lastName, lastStart, lastEnd = n.name, start, end
			}
			if used {
				break
			}
		}
	}
	if lastEnd >= lastStart {
		commit()
	}
	b.WriteString(string(letters[written:]))
	return b.String(), nil
}
