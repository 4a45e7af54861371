package services

// Conversation grouping. A conversation is derived, never stored: messages
// group by (counterpart, context). A message tied to a listing never
// shares a conversation with a general message to the same counterpart,
// and listing and announcement contexts are distinct namespaces. This is
// the single authoritative grouping rule; clients must not recompute it.

const (
	ContextGeneral      = "general"
	ContextListing      = "listing"
	ContextAnnouncement = "announcement"
)

type ConversationKey struct {
	CounterpartID string
	ContextType   string
	ContextID     string
}

// GroupKey derives the conversation key for a message as seen by viewerID.
func GroupKey(viewerID, senderID, receiverID string, listingID, announcementID *string) ConversationKey {
	counterpart := senderID
	if senderID == viewerID {
		counterpart = receiverID
	}
	key := ConversationKey{CounterpartID: counterpart, ContextType: ContextGeneral}
	switch {
	case listingID != nil && *listingID != "":
		key.ContextType = ContextListing
		key.ContextID = *listingID
	case announcementID != nil && *announcementID != "":
		key.ContextType = ContextAnnouncement
		key.ContextID = *announcementID
	}
	return key
}
