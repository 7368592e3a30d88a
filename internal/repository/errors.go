package repository

// Sentinel errors shared across repositories. Handlers distinguish
// failure scenarios with errors.Is and map them onto the closed set of
// user-facing responses; raw driver errors never leave the handler
// layer.

import "errors"

// ErrPackageNotFound is returned when a pak_id does not resolve to a
// package. Handlers translate this into HTTP 404.
var ErrPackageNotFound = errors.New("package not found")

// ErrPilgrimNotFound is returned when a nik does not resolve to a
// pilgrim. Handlers translate this into HTTP 404.
var ErrPilgrimNotFound = errors.New("pilgrim not found")

// ErrCancellationNotFound is returned when a cancellation id does not
// resolve to a pending request.
var ErrCancellationNotFound = errors.New("cancellation not found")

// ErrNIKExists is returned when a registration reuses a national id that
// is already registered. Handlers translate this into HTTP 409.
var ErrNIKExists = errors.New("nik already registered")

// ErrPackageInUse is returned when a package delete cannot proceed
// because pilgrims still reference it. Handlers translate this into
// HTTP 409.
var ErrPackageInUse = errors.New("package still has pilgrims")

// ErrDuplicateRoomCode is returned when a package create or update
// carries a hotel inventory with the same room code in more than one of
// its three lists.
var ErrDuplicateRoomCode = errors.New("duplicate room code in hotel inventory")
