package geofence

import "errors"

// Sensor failures reported by the client map onto these sentinels so every
// layer-1 outcome renders a specific cause. All of them are recoverable by
// re-running the scan.
var (
	ErrUnsupported      = errors.New("geolocation not supported on this device")
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
	ErrOutOfRange       = errors.New("outside hub radius")
)

// FailureKind is the client-reported reason a position could not be acquired.
type FailureKind string

const (
	FailureUnsupported FailureKind = "unsupported"
	FailureDenied      FailureKind = "permission_denied"
	FailureTimeout     FailureKind = "timeout"
	FailureUnavailable FailureKind = "unavailable"
)

// SensorError translates a reported failure kind into the error taxonomy.
func SensorError(kind FailureKind) error {
	switch kind {
	case FailureUnsupported:
		return ErrUnsupported
	case FailureDenied:
		return ErrPermissionDenied
	case FailureTimeout, FailureUnavailable:
		return ErrUnavailable
	}
	return ErrUnavailable
}
