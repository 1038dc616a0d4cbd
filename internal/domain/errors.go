package domain

import "errors"

// Domain errors
var (
	ErrAlreadyExists        = errors.New("resource already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("Unauthorized")
	ErrUserNotFound         = errors.New("User not found")
	ErrWorkspaceNotFound    = errors.New("Workspace not found")
	ErrMemberNotFound       = errors.New("Member not found")
	ErrChannelNotFound      = errors.New("Channel not found")
	ErrConversationNotFound = errors.New("Conversation not found")
	ErrMessageNotFound      = errors.New("Message not found")
	ErrParentNotFound       = errors.New("Parent message not found")
	ErrReactionNotFound     = errors.New("Reaction not found")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrBodyRequired         = errors.New("message body is required")
	ErrReactionRequired     = errors.New("reaction value is required")
	ErrInvalidRole          = errors.New("role must be admin or member")
	ErrInvalidCursor        = errors.New("invalid pagination cursor")
)

// Invariant violations. The messages are shown to users as-is.
var (
	ErrInvalidJoinCode      = errors.New("Invalid join code")
	ErrAlreadyMember        = errors.New("Already a member of this workspace")
	ErrAdminCannotBeRemoved = errors.New("Admin cannot be removed")
	ErrCannotRemoveSelf     = errors.New("Cannot remove self if self is an admin!")
	ErrInvalidChannelName   = errors.New("channel name must be between 3 and 80 characters")
)

// Validation constants
const (
	MaxWorkspaceNameLength = 80
	MinChannelNameLength   = 3
	MaxChannelNameLength   = 80
	MaxReactionValueLength = 64
)
