package bus

import "errors"

// ErrBusFault is the root of the fault taxonomy for this driver. Bus and
// Pin implementations wrap it when a transfer cannot complete (bus not
// ready, timeout); the driver core never raises it on its own, it only
// propagates. Callers test with errors.Is.
var ErrBusFault = errors.New("bus fault")
