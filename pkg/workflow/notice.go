package workflow

// Notice is the user-visible confirmation emitted after a mutation,
// e.g. "Added Input node".
type Notice struct {
	Message string
	NodeID  string // Node the notice refers to, if any
}

// Notifier receives notices from an [Editor].
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the [Notifier] interface.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// NopNotifier discards every notice.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(Notice) {}
