package inventory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Choice is the value a stock discrepancy is resolved to.
type Choice string

const (
	ChoiceLocal  Choice = "local"
	ChoiceRemote Choice = "remote"
	ChoiceCustom Choice = "custom"
)

// ParseChoice validates a resolver choice name.
func ParseChoice(s string) (Choice, error) {
	switch c := Choice(s); c {
	case ChoiceLocal, ChoiceRemote, ChoiceCustom:
		return c, nil
	}
	return "", fmt.Errorf("unknown resolution %q", s)
}

// RemoteDrift is how far the remote system's count is ahead of the local one.
const RemoteDrift = 5

// ErrResolverClosed is returned when confirming outside manual-fix mode.
var ErrResolverClosed = errors.New("resolver is not open")


// Resolver is the manual fix widget for a stock discrepancy between the
// local count and the remote system.
type Resolver struct {
	Active bool
	Choice Choice
	custom string
	result string
}

// NewResolver returns a closed resolver defaulting to the remote value.
func NewResolver() Resolver {
	return Resolver{Choice: ChoiceRemote}
}

// Open enters manual-fix mode.
func (r *Resolver) Open() {
	r.Active = true
}

// Choose selects one of the three resolutions. Switching away from custom
// keeps the typed text but it is ignored until custom is chosen again.
func (r *Resolver) Choose(c Choice) {
	r.Choice = c
}

// SetCustom sets the free-text value. It only takes effect for ChoiceCustom.
func (r *Resolver) SetCustom(v string) {
	r.custom = v
}

// Custom returns the typed custom value.
func (r *Resolver) Custom() string { return r.custom }

// CustomEnabled reports whether the free-text field accepts input.
func (r *Resolver) CustomEnabled() bool { return r.Choice == ChoiceCustom }

// Value computes the display value for a local stock count.
func (r *Resolver) Value(stock int) string {
	switch r.Choice {
	case ChoiceLocal:
		return strconv.Itoa(stock)
	case ChoiceCustom:
		return strings.TrimSpace(r.custom)
	default:
		return strconv.Itoa(stock + RemoteDrift)
	}
}

// Confirm computes the display value, stores the result line and leaves
// manual-fix mode.
func (r *Resolver) Confirm(stock int) (string, error) {
	if !r.Active {
		return "", ErrResolverClosed
	}
	v := r.Value(stock)
	r.result = "Fixed with: " + v
	r.Active = false
	return v, nil
}

// Cancel leaves manual-fix mode without changing the result.
func (r *Resolver) Cancel() {
	r.Active = false
}

// Result is the last confirmed line, e.g. "Fixed with: 290", or "".
func (r *Resolver) Result() string { return r.result }
