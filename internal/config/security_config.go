package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the admin role
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityAdmin:
		return "admin"
	default:
		return "access"
	}
}

// EndpointSecurityConfig maps HTTP route names and gRPC full method names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"health":  SecurityPublic,
	"metrics": SecurityPublic,

	// gRPC
	"/grpc.health.v1.Health/Check": SecurityPublic,

	// Listings - Public browsing
	"listings.categories":   SecurityPublic,
	"listings.browse":       SecurityPublic,
	"listings.get":          SecurityPublic,
	"listings.availability": SecurityPublic,
	"listings.calendar":     SecurityPublic,
	"listings.select":       SecurityPublic,
	"listings.quote":        SecurityPublic,
	"reviews.list":          SecurityPublic,
	"reviews.summary":       SecurityPublic,

	// Listings - Access Protected
	"listings.create":       SecurityAccess,
	"listings.update":       SecurityAccess,
	"listings.remove":       SecurityAccess,
	"listings.toggle_pause": SecurityAccess,
	"listings.mine":         SecurityAccess,
	"listings.removed":      SecurityAccess,
	"listings.save":         SecurityAccess,
	"listings.unsave":       SecurityAccess,
	"listings.saved":        SecurityAccess,
	"reviews.create":        SecurityAccess,

	// Bookings - Access Protected
	"bookings.create":    SecurityAccess,
	"bookings.get":       SecurityAccess,
	"bookings.accept":    SecurityAccess,
	"bookings.decline":   SecurityAccess,
	"bookings.cancel":    SecurityAccess,
	"bookings.rentals":   SecurityAccess,
	"bookings.lendings":  SecurityAccess,
	"bookings.stats":     SecurityAccess,
	"bookings.authorize": SecurityAccess,

	// Profile - Access Protected
	"profile.get":          SecurityAccess,
	"profile.update":       SecurityAccess,
	"notifications.list":   SecurityAccess,
	"notifications.read":   SecurityAccess,
	"activity.list":        SecurityAccess,
	"verification.submit":  SecurityAccess,
	"verification.current": SecurityAccess,

	// Messages - Access Protected
	"messages.threads": SecurityAccess,
	"messages.chat":    SecurityAccess,
	"messages.send":    SecurityAccess,
	"messages.read":    SecurityAccess,

	// Payments - Access Protected
	"payments.setup_intent": SecurityAccess,
	"payments.methods":      SecurityAccess,
	"payments.detach":       SecurityAccess,
	"payments.set_default":  SecurityAccess,

	// Admin
	"payments.capture":    SecurityAdmin,
	"payments.cancel":     SecurityAdmin,
	"payments.refund":     SecurityAdmin,
	"verification.list":   SecurityAdmin,
	"verification.review": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to access for unknown routes
	return SecurityAccess
}
