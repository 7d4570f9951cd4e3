package navigator

// Event names dispatched to the behavior layer
const (
	OnNavComplete      = "OnNavComplete"
	OnNavFailed        = "OnNavFailed"
	OnNavAtGoal        = "OnNavAtGoal"
	OnNavLostGoal      = "OnNavLostGoal"
	OnStartClimb       = "OnStartClimb" // args: height float64, direction core.Vector3D
	OnFacingTarget     = "OnFacingTarget"
	OnLostFacingTarget = "OnLostFacingTarget"
)

// EventSink receives goal lifecycle events. Handlers may replace or clear
// the navigator's goal from inside DispatchEvent.
type EventSink interface {
	DispatchEvent(name string, args ...any)
}

// EventFunc adapts a function to EventSink
type EventFunc func(name string, args ...any)

// DispatchEvent calls f
func (f EventFunc) DispatchEvent(name string, args ...any) {
	f(name, args...)
}

type discardEvents struct{}

func (discardEvents) DispatchEvent(string, ...any) {}
