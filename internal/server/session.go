package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yildizm/countrylookup/internal/search"
)

const sessionCookie = "countrylookup_session"

// session is one browser's widget. The mutex serialises controller calls;
// lookups run outside it so responses can overtake each other.
type session struct {
	mu   sync.Mutex
	ctrl *search.Controller
}

// sessionStore keeps the most recently used sessions. Evicted browsers start
// over with empty panes.
type sessionStore struct {
	cache   *lru.Cache[string, *session]
	newCtrl func() *search.Controller
}

func newSessionStore(size int, newCtrl func() *search.Controller) (*sessionStore, error) {
	cache, err := lru.New[string, *session](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	return &sessionStore{cache: cache, newCtrl: newCtrl}, nil
}

// get returns the session named by the request cookie, creating one and
// setting the cookie when it is missing or unknown.
func (s *sessionStore) get(w http.ResponseWriter, r *http.Request) *session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			if sess, ok := s.cache.Get(c.Value); ok {
				return sess
			}
		}
	}

	id := uuid.NewString()
	sess := &session{ctrl: s.newCtrl()}
	s.cache.Add(id, sess)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return sess
}

func (s *sessionStore) len() int {
	return s.cache.Len()
}

func (s *sessionStore) each(fn func(*session)) {
	for _, sess := range s.cache.Values() {
		fn(sess)
	}
}
