// Package treepath implements the path enumeration encoding used for the
// article tree of a board.
//
// Every article carries two parallel paths:
//
//	physical: /12/40/41        ids from the root to the article itself
//	logical:  ROOT/AGREE/NEUTRAL  stance of every edge from the root
//
// Both always have the same number of segments.
package treepath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Separator joins path segments.
	Separator = "/"

	// RootMarker is the first segment of every logical path.
	RootMarker = "ROOT"
)

var (
	ErrInvalidStance = errors.New("invalid stance")
	ErrInvalidPath   = errors.New("invalid path")
)

// Stance is the position a child article takes towards its parent.
type Stance string

const (
	Agree    Stance = "AGREE"
	Disagree Stance = "DISAGREE"
	Neutral  Stance = "NEUTRAL"
)

// Stances lists every valid stance.
var Stances = []Stance{Agree, Disagree, Neutral}

// ParseStance converts user input into a Stance. Matching is case-insensitive.
func ParseStance(s string) (Stance, error) {
	switch Stance(strings.ToUpper(strings.TrimSpace(s))) {
	case Agree:
		return Agree, nil
	case Disagree:
		return Disagree, nil
	case Neutral:
		return Neutral, nil
	}
	return "", fmt.Errorf("%w: %q, must be one of AGREE, DISAGREE, NEUTRAL", ErrInvalidStance, s)
}

func (s Stance) String() string { return string(s) }

// Path is the physical path of an article.
type Path string

// RootPath returns the path of a root article with the given id.
func RootPath(id int64) Path {
	return Path(Separator + strconv.FormatInt(id, 10))
}

// ParsePath validates a stored physical path.
func ParsePath(s string) (Path, error) {
	p := Path(s)
	if _, err := p.ids(); err != nil {
		return "", err
	}
	return p, nil
}

// Child returns the path of a child with the given id.
func (p Path) Child(id int64) Path {
	return Path(string(p) + Separator + strconv.FormatInt(id, 10))
}

// IDs returns the article ids from the root down to the article itself.
// Malformed segments are skipped.
func (p Path) IDs() []int64 {
	segs := p.segments()
	ids := make([]int64, 0, len(segs))
	for _, seg := range segs {
		id, err := strconv.ParseInt(seg, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (p Path) ids() ([]int64, error) {
	if !strings.HasPrefix(string(p), Separator) {
		return nil, fmt.Errorf("%w: %q must start with %q", ErrInvalidPath, string(p), Separator)
	}
	segs := p.segments()
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: %q has no segments", ErrInvalidPath, string(p))
	}
	ids := make([]int64, len(segs))
	for i, seg := range segs {
		id, err := strconv.ParseInt(seg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: bad segment %q in %q", ErrInvalidPath, seg, string(p))
		}
		ids[i] = id
	}
	return ids, nil
}

func (p Path) segments() []string {
	trimmed := strings.TrimPrefix(string(p), Separator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, Separator)
}

// Depth is the number of segments, 1 for a root.
func (p Path) Depth() int {
	return len(p.segments())
}

// ID returns the id of the article the path points to.
func (p Path) ID() int64 {
	ids := p.IDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

// IsRoot reports whether the path has exactly one segment.
func (p Path) IsRoot() bool {
	return p.Depth() == 1
}

// Parent returns the parent path, or "" for a root.
func (p Path) Parent() Path {
	i := strings.LastIndex(string(p), Separator)
	if i <= 0 {
		return ""
	}
	return p[:i]
}

// ParentID returns the id of the parent article.
func (p Path) ParentID() (int64, bool) {
	parent := p.Parent()
	if parent == "" {
		return 0, false
	}
	return parent.ID(), true
}

// IsAncestorOf reports whether p is a strict ancestor of other.
func (p Path) IsAncestorOf(other Path) bool {
	return p != "" && strings.HasPrefix(string(other), string(p)+Separator)
}

// LogicalPath is the stance path of an article.
type LogicalPath string

// RootLogical is the logical path of every root article.
const RootLogical LogicalPath = RootMarker

// Append returns the logical path of a child taking the given stance.
func (l LogicalPath) Append(s Stance) LogicalPath {
	return LogicalPath(string(l) + Separator + string(s))
}

// ParseLogicalPath validates a stored logical path.
func ParseLogicalPath(s string) (LogicalPath, error) {
	segs := strings.Split(s, Separator)
	if segs[0] != RootMarker {
		return "", fmt.Errorf("%w: logical path %q must start with %s", ErrInvalidPath, s, RootMarker)
	}
	for _, seg := range segs[1:] {
		if _, err := ParseStance(seg); err != nil || seg != strings.ToUpper(seg) {
			return "", fmt.Errorf("%w: bad stance %q in %q", ErrInvalidPath, seg, s)
		}
	}
	return LogicalPath(s), nil
}

// Stances returns the stances after the root marker.
func (l LogicalPath) Stances() []Stance {
	segs := strings.Split(string(l), Separator)
	if len(segs) <= 1 {
		return nil
	}
	out := make([]Stance, 0, len(segs)-1)
	for _, seg := range segs[1:] {
		out = append(out, Stance(seg))
	}
	return out
}

// Stance returns the stance of the last edge. Roots have none.
func (l LogicalPath) Stance() (Stance, bool) {
	st := l.Stances()
	if len(st) == 0 {
		return "", false
	}
	return st[len(st)-1], true
}

// Depth is the number of segments including the root marker.
func (l LogicalPath) Depth() int {
	if l == "" {
		return 0
	}
	return strings.Count(string(l), Separator) + 1
}

// Consistent reports whether both paths describe the same number of levels.
func Consistent(p Path, l LogicalPath) bool {
	if strings.SplitN(string(l), Separator, 2)[0] != RootMarker {
		return false
	}
	return p.Depth() > 0 && p.Depth() == l.Depth()
}

// Compare orders paths by their integer segments, parents before children.
// It returns -1, 0 or +1.
func Compare(a, b Path) int {
	x, y := a.IDs(), b.IDs()
	for i := 0; i < len(x) && i < len(y); i++ {
		switch {
		case x[i] < y[i]:
			return -1
		case x[i] > y[i]:
			return 1
		}
	}
	switch {
	case len(x) < len(y):
		return -1
	case len(x) > len(y):
		return 1
	}
	return 0
}
