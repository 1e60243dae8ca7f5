package model

// Session is the request-scoped snapshot of browser-session state handed to
// services. Authenticated sessions never consult the anonymous counter;
// anonymous sessions never hold a user identity.
type Session struct {
	UserID        int64
	Email         string
	Authenticated bool
	UploadCount   int
}
