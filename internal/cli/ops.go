package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// opKind names an edit of the organize command.
type opKind string

const (
	opMove      opKind = "move"
	opDuplicate opKind = "dup"
	opDelete    opKind = "del"
	opInsert    opKind = "ins"
)

// op is one --op flag. Positions are one-based and refer to the page order
// at the moment the op runs.
type op struct {
	kind      opKind
	positions []int
	target    int
	path      string
}

// parseOp parses move:FROM:TO, dup:N, del:N[,N...] and ins:POS:FILE.
func parseOp(s string) (op, error) {
	name, rest, ok := strings.Cut(s, ":")
	if !ok || rest == "" {
		return op{}, fmt.Errorf("invalid op %q: expected KIND:ARGS", s)
	}

	switch opKind(name) {
	case opMove:
		from, to, ok := strings.Cut(rest, ":")
		if !ok {
			return op{}, fmt.Errorf("invalid op %q: expected move:FROM:TO", s)
		}
		f, err := parsePosition(from)
		if err != nil {
			return op{}, fmt.Errorf("invalid op %q: %w", s, err)
		}
		t, err := parsePosition(to)
		if err != nil {
			return op{}, fmt.Errorf("invalid op %q: %w", s, err)
		}
		return op{kind: opMove, positions: []int{f}, target: t}, nil

	case opDuplicate:
		n, err := parsePosition(rest)
		if err != nil {
			return op{}, fmt.Errorf("invalid op %q: %w", s, err)
		}
		return op{kind: opDuplicate, positions: []int{n}}, nil

	case opDelete:
		var positions []int
		for _, field := range strings.Split(rest, ",") {
			n, err := parsePosition(field)
			if err != nil {
				return op{}, fmt.Errorf("invalid op %q: %w", s, err)
			}
			positions = append(positions, n)
		}
		return op{kind: opDelete, positions: positions}, nil

	case opInsert:
		pos, path, ok := strings.Cut(rest, ":")
		if !ok || path == "" {
			return op{}, fmt.Errorf("invalid op %q: expected ins:POS:FILE", s)
		}
		n, err := parsePosition(pos)
		if err != nil {
			return op{}, fmt.Errorf("invalid op %q: %w", s, err)
		}
		return op{kind: opInsert, target: n, path: path}, nil
	}

	return op{}, fmt.Errorf("invalid op %q: unknown kind %q (expected move, dup, del or ins)", s, name)
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("position %q is not a number", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("position %d must be 1 or greater", n)
	}
	return n, nil
}
