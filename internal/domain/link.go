package domain

// LinkedIdentity is the persisted mapping from a local user to the external
// account they proved ownership of via the OAuth flow. One row per user;
// re-linking overwrites.
type LinkedIdentity struct {
	UserID              string `json:"user_id" dynamodbav:"user_id"`
	ExternalUserID      string `json:"external_user_id" dynamodbav:"external_user_id"`
	ExternalUsername    string `json:"external_username" dynamodbav:"external_username"`
	ExternalDisplayName string `json:"external_display_name" dynamodbav:"external_display_name"`
	Verified            bool   `json:"verified" dynamodbav:"verified"`
	VerifiedType        string `json:"verified_type,omitempty" dynamodbav:"verified_type"`
	LinkedAt            int64  `json:"linked_at" dynamodbav:"linked_at"`
}

// DisplayVerified reports whether the linked account should be rendered with
// a verification mark: either the legacy verified flag or a paid/org check.
func (l *LinkedIdentity) DisplayVerified() bool {
	switch l.VerifiedType {
	case "blue", "business", "government":
		return true
	}
	return l.Verified
}

// PendingLink is an in-flight linking attempt keyed by its opaque state token.
// It lives in the JSON-backed pending store until popped by the OAuth callback
// or garbage-collected after the TTL.
type PendingLink struct {
	UserID       string `json:"user_id"`
	CodeVerifier string `json:"code_verifier"`
	CreatedAt    int64  `json:"created_at"`
}
