package eskip

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueArgs provides sequential, typed access to an Args value list (every
// eskip argument here is already a string; factories parse it into the
// types their config needs). Every non-optional accessor increases the expected
// argument counter; Err reports a mismatch between that counter and the
// actual argument count, plus any conversion errors encountered along the
// way.
//
// Example usage:
//
//	a := NewValueArgs(pd.Args.Values())
//	n, d, opt, err := a.Int(), a.Duration(), a.OptionalString("default"), a.Err()
type ValueArgs struct {
	values []string
	pos    int
	errs   []error
}

// NewValueArgs wraps a plain string slice (typically Args.Values()) for
// sequential typed access.
func NewValueArgs(values []string) *ValueArgs {
	return &ValueArgs{values: values}
}

func (a *ValueArgs) next() (string, bool) {
	if a.pos >= len(a.values) {
		a.pos++
		return "", false
	}
	v := a.values[a.pos]
	a.pos++
	return v, true
}

func (a *ValueArgs) error(err error) { a.errs = append(a.errs, err) }

func (a *ValueArgs) String() (_ string) {
	if v, ok := a.next(); ok {
		return v
	}
	a.error(fmt.Errorf("missing string argument at position %d", a.pos-1))
	return
}

func (a *ValueArgs) OptionalString(defaultValue string) string {
	if a.pos >= len(a.values) {
		return defaultValue
	}
	return a.String()
}

func (a *ValueArgs) Int() (_ int) {
	v, ok := a.next()
	if !ok {
		a.error(fmt.Errorf("missing int argument at position %d", a.pos-1))
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		a.error(fmt.Errorf("%q is not an int: %w", v, err))
		return 0
	}
	return n
}

func (a *ValueArgs) OptionalInt(defaultValue int) int {
	if a.pos >= len(a.values) {
		return defaultValue
	}
	return a.Int()
}

func (a *ValueArgs) Float64() (_ float64) {
	v, ok := a.next()
	if !ok {
		a.error(fmt.Errorf("missing float argument at position %d", a.pos-1))
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		a.error(fmt.Errorf("%q is not a float64: %w", v, err))
		return 0
	}
	return f
}

func (a *ValueArgs) Bool() (_ bool) {
	v, ok := a.next()
	if !ok {
		a.error(fmt.Errorf("missing bool argument at position %d", a.pos-1))
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		a.error(fmt.Errorf("%q is not a bool: %w", v, err))
		return false
	}
	return b
}

func (a *ValueArgs) OptionalBool(defaultValue bool) bool {
	if a.pos >= len(a.values) {
		return defaultValue
	}
	return a.Bool()
}

// Duration parses a Go duration string ("1s", "500ms"). A bare-number
// variant is intentionally not supported; duration arguments are always
// written as duration strings.
func (a *ValueArgs) Duration() (_ time.Duration) {
	v, ok := a.next()
	if !ok {
		a.error(fmt.Errorf("missing duration argument at position %d", a.pos-1))
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		a.error(fmt.Errorf("%q is not a duration: %w", v, err))
		return 0
	}
	return d
}

func (a *ValueArgs) OptionalDuration(defaultValue time.Duration) time.Duration {
	if a.pos >= len(a.values) {
		return defaultValue
	}
	return a.Duration()
}

// Remaining returns every not-yet-consumed value without advancing pos,
// e.g. for variadic trailing arguments.
func (a *ValueArgs) Remaining() []string {
	if a.pos >= len(a.values) {
		return nil
	}
	return a.values[a.pos:]
}

// Err reports a non-nil error if the expected argument counter does not
// match the input length, or if any conversion failed.
func (a *ValueArgs) Err() error {
	var msgs []string
	if a.pos != len(a.values) {
		msgs = append(msgs, fmt.Sprintf("expects %d arguments, got %d", a.pos, len(a.values)))
	}
	for _, err := range a.errs {
		msgs = append(msgs, err.Error())
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, ", "))
}
