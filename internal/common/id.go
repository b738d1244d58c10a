package common

import (
	"github.com/google/uuid"
)

// NewThreadID generates a unique thread ID with the "thread_" prefix
func NewThreadID() string {
	return "thread_" + uuid.New().String()
}

// NewMessageID generates a unique message ID with the "msg_" prefix
func NewMessageID() string {
	return "msg_" + uuid.New().String()
}

// NewDocumentID generates a unique document ID with the "doc_" prefix
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewIndexEntryID generates a unique index entry ID with the "entry_" prefix
func NewIndexEntryID() string {
	return "entry_" + uuid.New().String()
}
