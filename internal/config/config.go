package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultAPIURL is the origin of the recommendation backend.
	DefaultAPIURL = "http://localhost:5000"

	// DefaultPortalURL is the PM Internship Scheme portal. It doubles as the
	// careers URL for companies missing from the directory.
	DefaultPortalURL = "https://pminternship.mca.gov.in/"

	// DefaultAPITimeout of zero leaves the transport default in place.
	DefaultAPITimeout time.Duration = 0

	// DefaultSessionTTL is how long an idle visitor session is kept.
	DefaultSessionTTL = 30 * time.Minute

	// DefaultSessionSweepInterval is how often expired sessions are dropped.
	DefaultSessionSweepInterval = time.Minute

	// DefaultSubmitRate is the sustained submissions per second per session.
	DefaultSubmitRate = 1.0

	// DefaultSubmitBurst is the submission burst allowed per session.
	DefaultSubmitBurst = 3
)

// Apply flow timings, matching the notification sequence of the site.
const (
	ApplyOpenDelay     = 1500 * time.Millisecond
	ApplyPortalDelay   = 2 * time.Second
	ApplySuccessTTL    = 8 * time.Second
	ErrorNoticeTTL     = 5 * time.Second
	EducationNoticeTTL = 2 * time.Second
)
