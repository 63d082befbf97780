package domain

// Notification is a transient toast. At most one is visible at a time;
// a newer one replaces the current one.
type Notification struct {
	ID      string
	Title   string
	Message string
	Type    NotificationType
}

// ConfirmDialogRequest is a pending yes/no question to the operator.
// Opening a second request replaces the first.
type ConfirmDialogRequest struct {
	IsOpen      bool
	Title       string
	Message     string
	Type        string
	ConfirmText string
	CancelText  string
	OnConfirm   func()
	OnCancel    func()
}
