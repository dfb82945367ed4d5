package domain

import "strconv"

// Coordinate is a decoded grid position.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MatchKind identifies which token interpretation applied.
type MatchKind int

const (
	// MatchNone means no interpretation found a coordinate pair.
	MatchNone MatchKind = iota
	// MatchMissing means the cell was null or absent.
	MatchMissing
	// MatchBoundedRun means two separate 4–6 digit runs were found.
	MatchBoundedRun
	// MatchFusedRun means a single 10–12 digit run was split in halves.
	MatchFusedRun
	// MatchAmbiguousFusedRun means the last 8–12 digit run had 8 or 9 digits,
	// for which no split width is defined.
	MatchAmbiguousFusedRun
)

func (k MatchKind) String() string {
	switch k {
	case MatchMissing:
		return "missing"
	case MatchBoundedRun:
		return "bounded_run"
	case MatchFusedRun:
		return "fused_run"
	case MatchAmbiguousFusedRun:
		return "ambiguous_fused_run"
	default:
		return "none"
	}
}

// TokenMatch is the outcome of classifying one location token. Coordinate is
// only meaningful when OK reports true.
type TokenMatch struct {
	Kind       MatchKind
	Coordinate Coordinate
}

// OK reports whether the match produced a coordinate.
func (m TokenMatch) OK() bool {
	return m.Kind == MatchBoundedRun || m.Kind == MatchFusedRun
}

const (
	boundedMin = 4
	boundedMax = 6
	fusedMin   = 8
	fusedMax   = 12
	fusedSplit = 10
)

// ClassifyToken interprets a raw location token. Bounded runs are tried
// before fused runs; the first interpretation that succeeds wins.
func ClassifyToken(cell Cell) TokenMatch {
	if !cell.Valid {
		return TokenMatch{Kind: MatchMissing}
	}
	runs := digitRuns(cell.Value)

	if m, ok := boundedRunMatch(runs); ok {
		return m
	}
	return fusedRunMatch(runs)
}

// ExtractCoordinate returns the coordinate encoded in cell, or false when the
// cell is null or cannot be interpreted.
func ExtractCoordinate(cell Cell) (Coordinate, bool) {
	m := ClassifyToken(cell)
	return m.Coordinate, m.OK()
}

func boundedRunMatch(runs []string) (TokenMatch, bool) {
	var picked []string
	for _, r := range runs {
		if len(r) >= boundedMin && len(r) <= boundedMax {
			picked = append(picked, r)
			if len(picked) == 2 {
				break
			}
		}
	}
	if len(picked) < 2 {
		return TokenMatch{}, false
	}
	x, errX := strconv.Atoi(picked[0])
	y, errY := strconv.Atoi(picked[1])
	if errX != nil || errY != nil {
		return TokenMatch{}, false
	}
	return TokenMatch{Kind: MatchBoundedRun, Coordinate: Coordinate{X: x, Y: y}}, true
}

func fusedRunMatch(runs []string) TokenMatch {
	last := ""
	for _, r := range runs {
		if len(r) >= fusedMin && len(r) <= fusedMax {
			last = r
		}
	}
	if last == "" {
		return TokenMatch{Kind: MatchNone}
	}
	if len(last) < fusedSplit {
		return TokenMatch{Kind: MatchAmbiguousFusedRun}
	}
	tail := last[len(last)-fusedSplit:]
	x, errX := strconv.Atoi(tail[:fusedSplit/2])
	y, errY := strconv.Atoi(tail[fusedSplit/2:])
	if errX != nil || errY != nil {
		return TokenMatch{Kind: MatchNone}
	}
	return TokenMatch{Kind: MatchFusedRun, Coordinate: Coordinate{X: x, Y: y}}
}

// digitRuns returns the maximal runs of ASCII digits in s, left to right.
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
