package eval

import "github.com/scriptpp-lang/scriptpp/internal/lang/object"

// Thrown is the Go error scriptpp's `throw` and every structured-error
// constructor in this package produce. It is the "host-language exception"
// spec.md §7 describes: a normal Go error value carrying an
// object.Exception, caught by try/catch via errors.As and, if it escapes
// the top-level evaluation uncaught, reported by the driver.
type Thrown struct {
	Exc *object.Exception
}

func (t *Thrown) Error() string { return t.Exc.String() }
