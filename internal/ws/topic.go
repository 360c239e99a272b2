package ws

import "strings"

// Topic names a logical subscription: one query a screen watches.
type Topic string

const (
	KindEvents        = "events"
	KindEvent         = "event"
	KindGuests        = "guests"
	KindTasks         = "tasks"
	KindNotifications = "notifications"
)

func EventsTopic(userID string) Topic        { return Topic(KindEvents + ":" + userID) }
func EventTopic(eventID string) Topic        { return Topic(KindEvent + ":" + eventID) }
func GuestsTopic(eventID string) Topic       { return Topic(KindGuests + ":" + eventID) }
func TasksTopic(eventID string) Topic        { return Topic(KindTasks + ":" + eventID) }
func NotificationsTopic(userID string) Topic { return Topic(KindNotifications + ":" + userID) }

// Split returns the topic kind and its scoping id.
func (t Topic) Split() (kind, id string) {
	kind, id, _ = strings.Cut(string(t), ":")
	return kind, id
}
