package store

// Key names one persisted collection, matching the layout the browser portal
// kept in local storage.
type Key string

const (
	KeyUsers          Key = "users"
	KeyNotifications  Key = "notifications"
	KeyCalendarEvents Key = "calendarEvents"
	KeyDocuments      Key = "documents"
	KeyChatMessages   Key = "chatMessages"
	KeyFilingGuides   Key = "filingGuides"
	KeyCurrentUser    Key = "currentUser"
)

// Collections lists every collection key in dependency order: users first,
// since the other collections reference user ids.
var Collections = []Key{
	KeyUsers,
	KeyNotifications,
	KeyCalendarEvents,
	KeyDocuments,
	KeyChatMessages,
	KeyFilingGuides,
}

func (k Key) Valid() bool {
	for _, c := range Collections {
		if c == k {
			return true
		}
	}
	return false
}
