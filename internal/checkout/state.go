package checkout

import (
	"time"

	"github.com/Lixing-Zhang/flytire/backend/internal/inventory"
	"github.com/Lixing-Zhang/flytire/backend/internal/models"
)

// AdminSession is an admin login held by the storefront.
type AdminSession struct {
	Token     string
	ExpiresAt time.Time
}

// AppState is everything the storefront keeps for one session: the loaded
// catalog and, optionally, an admin login.
type AppState struct {
	Catalog *inventory.Catalog

	admin *AdminSession
	now   func() time.Time
}

// NewAppState wraps a loaded catalog.
func NewAppState(catalog *inventory.Catalog) *AppState {
	if catalog == nil {
		catalog = inventory.NewCatalog(nil)
	}
	return &AppState{Catalog: catalog, now: time.Now}
}

// SetAdmin records a successful admin login.
func (s *AppState) SetAdmin(sess *AdminSession) {
	s.admin = sess
}

// ClearAdmin forgets the admin login.
func (s *AppState) ClearAdmin() {
	s.admin = nil
}

// Admin returns the admin session while it has not expired.
func (s *AppState) Admin() (*AdminSession, bool) {
	if s.admin == nil {
		return nil, false
	}
	if !s.admin.ExpiresAt.IsZero() && !s.now().Before(s.admin.ExpiresAt) {
		s.admin = nil
		return nil, false
	}
	return s.admin, true
}

// IsAdmin reports whether an unexpired admin session is held.
func (s *AppState) IsAdmin() bool {
	_, ok := s.Admin()
	return ok
}

// Listing returns the catalog items to display. Out-of-stock tires are
// hidden from customers unless asked for; admins always see them.
func (s *AppState) Listing(cr inventory.Criteria) []*models.TireItem {
	if s.IsAdmin() {
		cr.InStockOnly = false
	}
	return s.Catalog.Filter(cr)
}
