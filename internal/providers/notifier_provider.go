package providers

// NotifyKind mirrors the host's ephemeral notification levels.
type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyWarning NotifyKind = "warning"
	NotifyError   NotifyKind = "error"
)

// NotifierInterface surfaces user-visible notifications. The core never
// depends on a notification succeeding.
type NotifierInterface interface {
	Notify(kind NotifyKind, message string)
}

// LogNotifier is the daemon-side notifier: notifications land in the log
// stream instead of a UI toast.
type LogNotifier struct {
	logger Logger
}

func NewLogNotifier(logger Logger) NotifierInterface {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(kind NotifyKind, message string) {
	switch kind {
	case NotifyError:
		n.logger.Errorf(TypeSync, "notify: %s", message)
	case NotifyWarning:
		n.logger.Warnf(TypeSync, "notify: %s", message)
	default:
		n.logger.Infof(TypeSync, "notify: %s", message)
	}
}
