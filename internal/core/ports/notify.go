package ports

// Notifier is the user-facing notification sink. Fire-and-forget; callers
// never consume a return value.
type Notifier interface {
	ShowError(message string)
	ShowSuccess(message string)
	ShowInfo(message string)
	ShowWarning(message string)
}

// Navigator moves the application to a route after a session transition.
// Navigation must not be able to fail the transition that triggered it.
type Navigator interface {
	NavigateTo(route string)
}
