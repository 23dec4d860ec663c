package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityRecovery                      // Recovery session from an emailed link
	SecurityAccess                        // Access token required
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Account lifecycle - Public
	"Register":       SecurityPublic,
	"Login":          SecurityPublic,
	"ForgotPassword": SecurityPublic,
	"Health":         SecurityPublic,
	"Metrics":        SecurityPublic,

	// Directory - Public
	"ListJournals":      SecurityPublic,
	"ListEditorialTeam": SecurityPublic,

	// Account lifecycle - Recovery Protected
	"SetPassword":   SecurityRecovery,
	"ResetPassword": SecurityRecovery,

	// Account lifecycle - Access Protected
	"Logout": SecurityAccess,

	// Admin - Access Protected, role checked by the service
	"ListPendingRegistrations": SecurityAccess,
	"ApproveRegistration":      SecurityAccess,
	"RejectRegistration":       SecurityAccess,
	"CreateJournal":            SecurityAccess,
	"CreatePerson":             SecurityAccess,
	"AssignEditor":             SecurityAccess,
	"SetAssignmentActive":      SecurityAccess,
	"DownloadDocument":         SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAccess
}
