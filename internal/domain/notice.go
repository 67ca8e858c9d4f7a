package domain

import "time"

// NoticeLevel is the visual style of a transient notification.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient, optionally dismissible notification.
type Notice struct {
	Level       NoticeLevel
	Title       string
	Message     string
	Dismissible bool
	TTL         time.Duration
}
