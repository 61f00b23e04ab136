package models

// Sentinel values written into records. NotSpecified is the canonical form;
// LegacyNotSpecified is what older clients send for "unknown" and is treated
// as missing when merging.
const (
	NotSpecified       = "Not Specified"
	LegacyNotSpecified = "Not specified"
	NoDescription      = "No description available. Please add product details."
)

// Record defaults applied when neither the caller nor the document supplies a value.
const (
	DefaultDescription      = "No description provided"
	DefaultArticleType      = "Other"
	DefaultColour           = NotSpecified
	DefaultGender           = "Unisex"
	DefaultFit              = "Regular"
	DefaultBrand            = "Unknown"
	DefaultCollection       = "Default"
	DefaultCareInstructions = "Follow standard care instructions"
	DefaultDesigner         = "Yusuf"
	StyleIDPrefix           = "ID-"
)

// Record statuses
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// IsValidStatus reports whether s is one of the record statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
