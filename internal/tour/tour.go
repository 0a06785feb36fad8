// Package tour knows the two professional tours a player can be looked up on.
package tour

import (
	"errors"
	"fmt"
	"strings"
)

type Code string

const (
	ATP Code = "atp"
	WTA Code = "wta"
)

var ErrInvalid = errors.New("invalid tour")

// Parse accepts "atp" or "wta" in any case, surrounding whitespace is ignored.
func Parse(s string) (Code, error) {
	switch Code(strings.ToLower(strings.TrimSpace(s))) {
	case ATP:
		return ATP, nil
	case WTA:
		return WTA, nil
	}
	return "", fmt.Errorf("%w: %q (expected ATP or WTA)", ErrInvalid, s)
}

func (c Code) String() string {
	return string(c)
}

// Display is the uppercase form shown to users.
func (c Code) Display() string {
	return strings.ToUpper(string(c))
}
