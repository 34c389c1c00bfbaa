package textsearch

import (
	"encoding/json"
	"sort"
	"unicode/utf8"

	"searchapi/internal/apperrors"
)

// snapshot is the JSON form of a compiled automaton. Letters are already
// dropped by Compile, so nodes carry only length, name and the terminal
// flag. Arrows are sorted so encoding is deterministic.
type snapshot struct {
	Nodes []snapshotNode `json:"nodes"`
	Next  []snapshotEdge `json:"next"`
	Fail  [][2]int       `json:"fail"`
}

type snapshotNode struct {
	Length   int    `json:"length"`
	Name     string `json:"name,omitempty"`
	Terminal bool   `json:"terminal,omitempty"`
}

type snapshotEdge struct {
	From   int    `json:"from"`
	Letter string `json:"letter"`
	To     int    `json:"to"`
}

// Encode serializes a compiled automaton as JSON. A decoded automaton can
// match and substitute but not accept new keywords, since the letter paths
// are gone.
func (s *Searcher) Encode() ([]byte, error) {
	if err := s.requireCompiled(); err != nil {
		return nil, err
	}

	snap := snapshot{
		Nodes: make([]snapshotNode, len(s.nodes)),
		Next:  make([]snapshotEdge, 0, len(s.next)),
		Fail:  make([][2]int, 0, len(s.fail)),
	}
	for i, n := range s.nodes {
		snap.Nodes[i] = snapshotNode{Length: n.length, Name: n.name, Terminal: n.terminal}
	}
	for k, v := range s.next {
		snap.Next = append(snap.Next, snapshotEdge{From: k.node, Letter: string(k.letter), To: v})
	}
	sort.Slice(snap.Next, func(i, j int) bool {
		if snap.Next[i].From != snap.Next[j].From {
			return snap.Next[i].From < snap.Next[j].From
		}
		return snap.Next[i].Letter < snap.Next[j].Letter
	})
	for k, v := range s.fail {
		snap.Fail = append(snap.Fail, [2]int{k, v})
	}
	sort.Slice(snap.Fail, func(i, j int) bool {
		return snap.Fail[i][0] < snap.Fail[j][0]
	})

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "encode searcher")
	}
	return data, nil
}

// Decode restores an automaton from its Encode form. The result is compiled
// and immutable.
func Decode(data []byte) (*Searcher, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, err, "decode searcher")
	}
	if len(snap.Nodes) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "decode searcher: missing root node")
	}

	s := &Searcher{
		nodes:    make([]node, len(snap.Nodes)),
		next:     make(map[transition]int, len(snap.Next)),
		fail:     make(map[int]int, len(snap.Fail)),
		compiled: true,
	}
	for i, n := range snap.Nodes {
		s.nodes[i] = node{length: n.Length, name: n.Name, terminal: n.Terminal}
	}
	for _, e := range snap.Next {
		letter, size := utf8.DecodeRuneInString(e.Letter)
		if size == 0 || size != len(e.Letter) || (letter == utf8.RuneError && size == 1) {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "decode searcher: bad letter %q", e.Letter)
		}
		if !s.validNode(e.From) || !s.validNode(e.To) {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "decode searcher: arrow %d->%d out of range", e.From, e.To)
		}
		s.next[transition{e.From, letter}] = e.To
	}
	for _, f := range snap.Fail {
		if !s.validNode(f[0]) || !s.validNode(f[1]) {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "decode searcher: fail link %d->%d out of range", f[0], f[1])
		}
		s.fail[f[0]] = f[1]
	}
	return s, nil
}

func (s *Searcher) validNode(id int) bool {
	return id >= 1 && id <= len(s.nodes)
}
