package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"balift/internal/model"
)

const (
	sessionName = "balift"

	sessionKeyUserID   = "userID"
	sessionKeyUsername = "username"
	sessionKeyIsAdmin  = "isAdmin"
)

// Principal identifies the signed-in caller for authorization decisions.
type Principal struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// Sessions issues and reads the browser session cookie.
type Sessions struct {
	store sessions.Store
}

func NewSessions(secret []byte, secure bool) *Sessions {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	return &Sessions{store: cs}
}

// SignIn establishes a session carrying the user's id, username and admin
// flag.
func (s *Sessions) SignIn(w http.ResponseWriter, r *http.Request, u model.User) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values[sessionKeyUserID] = u.ID
	sess.Values[sessionKeyUsername] = u.Username
	sess.Values[sessionKeyIsAdmin] = u.IsAdmin
	return sess.Save(r, w)
}

// SignOut clears the session unconditionally.
func (s *Sessions) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	return sess.Save(r, w)
}

// Current returns the caller identified by the request's session cookie, if
// any.
func (s *Sessions) Current(r *http.Request) (Principal, bool) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		// a tampered or stale cookie is the same as no session
		return Principal{}, false
	}

	id, ok := sess.Values[sessionKeyUserID].(int64)
	if !ok {
		return Principal{}, false
	}
	username, _ := sess.Values[sessionKeyUsername].(string)
	isAdmin, _ := sess.Values[sessionKeyIsAdmin].(bool)
	return Principal{UserID: id, Username: username, IsAdmin: isAdmin}, true
}
