package services

import "github.com/dmitrijs2005/teamdeck/internal/client/models"

const (
	// StorageSlotName is the storage slot holding the persisted auth state.
	StorageSlotName = "auth-storage"
	// StorageVersion tags the persisted record; bump it on breaking changes
	// to State so older records are discarded.
	StorageVersion = 1
)

// StorageUnavailableMessage is shown to the user when an auth operation is
// refused because local storage is unavailable.
const StorageUnavailableMessage = "Local storage is unavailable, so your sign-in cannot be kept. " +
	"Check that the storage path is writable and try again."

// State is the client's authentication state. Session, JWT and User are
// set and cleared together.
type State struct {
	Session  *models.Session `json:"session"`
	JWT      string          `json:"jwt"`
	User     *models.User    `json:"user"`
	Hydrated bool            `json:"hydrated"`
	Loading  bool            `json:"loading"`
}

func (s State) clone() State {
	s.Session = s.Session.Clone()
	s.User = s.User.Clone()
	return s
}

func (s *State) clearAuth() {
	s.Session = nil
	s.JWT = ""
	s.User = nil
}

// SignedIn reports whether a session is held.
func (s State) SignedIn() bool { return s.Session != nil }

// View is the read-only projection consumers render from.
type View struct {
	User     *models.User
	Hydrated bool
	Loading  bool
}

// pendingView is returned until hydration completes, so a default state is
// never mistaken for "signed out".
var pendingView = View{User: nil, Hydrated: false, Loading: true}
