package documents

import (
	"fmt"
	"strings"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/pkg/docstore"
)

// Stored record shapes. Each field carries the same name for every backend.

type accountRecord struct {
	Role            string            `firestore:"role" bson:"role" json:"role"`
	Name            string            `firestore:"name" bson:"name" json:"name"`
	Email           string            `firestore:"email" bson:"email" json:"email"`
	Phone           string            `firestore:"phone" bson:"phone" json:"phone"`
	ProfileImageURL string            `firestore:"profileImageURL" bson:"profileImageURL" json:"profileImageURL"`
	Status          string            `firestore:"status" bson:"status" json:"status"`
	Rating          *float64          `firestore:"rating" bson:"rating" json:"rating"`
	Rides           float64           `firestore:"rides" bson:"rides" json:"rides"`
	LicenseNumber   string            `firestore:"licenseNumber" bson:"licenseNumber" json:"licenseNumber"`
	VehicleType     string            `firestore:"vehicleType" bson:"vehicleType" json:"vehicleType"`
	Documents       map[string]string `firestore:"documents" bson:"documents" json:"documents"`
	ClientID        string            `firestore:"clientId" bson:"clientId" json:"clientId"`
	CreatedAt       time.Time         `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
}

type placeRecord struct {
	Address string `firestore:"address" bson:"address" json:"address"`
}

type bookingRecord struct {
	Type        string       `firestore:"type" bson:"type" json:"type"`
	ClientID    string       `firestore:"clientId" bson:"clientId" json:"clientId"`
	DriverID    string       `firestore:"driverId" bson:"driverId" json:"driverId"`
	Pickup      *placeRecord `firestore:"pickup" bson:"pickup" json:"pickup"`
	Destination *placeRecord `firestore:"destination" bson:"destination" json:"destination"`
	Status      string       `firestore:"status" bson:"status" json:"status"`
	Amount      float64      `firestore:"amount" bson:"amount" json:"amount"`
	Distance    *float64     `firestore:"distance" bson:"distance" json:"distance"`
	CreatedAt   time.Time    `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
}

type paymentRecord struct {
	Amount    float64   `firestore:"amount" bson:"amount" json:"amount"`
	Status    string    `firestore:"status" bson:"status" json:"status"`
	CreatedAt time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
}

func dataTo(doc docstore.Document, v interface{}) error {
	if err := doc.DataTo(v); err != nil {
		return fmt.Errorf("%w: %s: %w", interfaces.ErrInvalidRecord, doc.ID, err)
	}
	return nil
}

func (p *placeRecord) address() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Address)
}

// account maps the record without validating role or status. A missing
// status becomes the role's initial status when the role is known.
func (r *accountRecord) account(id string) *models.Account {
	role := models.Role(strings.TrimSpace(r.Role))
	status := models.AccountStatus(strings.TrimSpace(r.Status))
	if status == "" {
		status = role.InitialStatus()
	}

	var documents map[string]string
	for name, ref := range r.Documents {
		if ref == "" {
			continue
		}
		if documents == nil {
			documents = make(map[string]string, len(r.Documents))
		}
		documents[name] = ref
	}

	account := &models.Account{
		ID:              id,
		Role:            role,
		Name:            strings.TrimSpace(r.Name),
		Email:           strings.TrimSpace(r.Email),
		Phone:           strings.TrimSpace(r.Phone),
		ProfileImageURL: strings.TrimSpace(r.ProfileImageURL),
		Status:          status,
		Rating:          r.Rating,
		Rides:           int(r.Rides),
		LicenseNumber:   strings.TrimSpace(r.LicenseNumber),
		VehicleType:     strings.TrimSpace(r.VehicleType),
		Documents:       documents,
		ClientID:        strings.TrimSpace(r.ClientID),
	}
	if !r.CreatedAt.IsZero() {
		account.CreatedAt = r.CreatedAt.UTC()
	}
	return account
}
