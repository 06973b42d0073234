package shop_models

import "time"

// Service is a value object inside a Shop. It has no identity of its own
// beyond its name/position within the shop's list.
type Service struct {
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
}

// Review references a shop and a customer. Reviews do not require a completed
// booking.
type Review struct {
	CustomerID string    `json:"customer"`
	Rating     int       `json:"rating"` // 1-5
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// Shop is a salon as served by the backend.
type Shop struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Services    []Service `json:"services"`
	OwnerID     string    `json:"owner"`
	Approved    bool      `json:"approved"`
	Rating      float64   `json:"rating"`
	Reviews     []Review  `json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// FindService looks a service up by name within the shop's list.
func (s *Shop) FindService(name string) (Service, bool) {
	for _, svc := range s.Services {
		if svc.ServiceName == name {
			return svc, true
		}
	}
	return Service{}, false
}

// ValidRating reports whether r is within review bounds.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
