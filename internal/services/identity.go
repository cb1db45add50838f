package services

// Identity is the caller of a submission as seen by the orchestrator.
type Identity interface {
	IsAuthenticated() bool
	// Identity is the clinician's username, or "" when anonymous.
	Identity() string
}

// Anonymous is an unauthenticated caller. Its submissions are not recorded.
type Anonymous struct{}

func (Anonymous) IsAuthenticated() bool { return false }
func (Anonymous) Identity() string      { return "" }

// ClinicianIdentity is a caller holding a valid access token.
type ClinicianIdentity struct {
	ID       string
	Username string
}

func (c ClinicianIdentity) IsAuthenticated() bool { return c.Username != "" }
func (c ClinicianIdentity) Identity() string      { return c.Username }
