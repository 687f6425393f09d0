package erroring

import (
	"fmt"
)

// CallAndRecover turns a panic of type E raised inside f into a returned
// error. Any other panic is also converted, after printing a readable trace.
func CallAndRecover[E error, T any](f func() T) (result T, retErr error) {
	defer func() {
		var err = recover()
		switch err := err.(type) {
		case nil:
			return
		case E:
			retErr = err
		default:
			retErr = fmt.Errorf("unexpected error of type %T: %s", err, err)
			PrintTrace()
		}
	}()
	result = f()
	return
}
