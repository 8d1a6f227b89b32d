package session

// ViewPolicy classifies a navigation target for the access gate.
type ViewPolicy int

const (
	// ViewPublic is reachable regardless of session state.
	ViewPublic ViewPolicy = iota
	// ViewProtected requires an authenticated session.
	ViewProtected
	// ViewGuestOnly covers login and registration views, which redirect
	// away once a session exists.
	ViewGuestOnly
)

// Default redirect targets for denied navigations.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// Decision is the gate's answer for a single navigation request.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Gate derives the binary authenticated signal from the session manager.
// It holds no state of its own: every decision re-reads the manager, so
// consumers never work from a stale copy of the token.
type Gate struct {
	sessions *Manager
}

// NewGate builds a gate over the given manager.
func NewGate(sessions *Manager) *Gate {
	return &Gate{sessions: sessions}
}

// IsAuthenticated reports whether a token is currently held.
func (g *Gate) IsAuthenticated() bool {
	return g.sessions.Token() != ""
}

// Admit decides whether a navigation target may render, and where to
// redirect when it may not. Authorization is intentionally binary: token
// presence is the only input.
func (g *Gate) Admit(policy ViewPolicy) Decision {
	authenticated := g.IsAuthenticated()

	switch policy {
	case ViewProtected:
		if !authenticated {
			return Decision{Redirect: LoginRoute}
		}
	case ViewGuestOnly:
		if authenticated {
			return Decision{Redirect: HomeRoute}
		}
	}

	return Decision{Allowed: true}
}
