package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradedoc/backend/internal/domain/partner"
)

// CreateClientRequest creates a client
type CreateClientRequest struct {
	Code     string `json:"code" validate:"required,max=50"`
	Name     string `json:"name" validate:"required,max=200"`
	TaxID    string `json:"taxId"`
	Address  string `json:"address"`
	Country  string `json:"country" validate:"required,len=2"`
	Currency string `json:"currency" validate:"required,len=3"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

// UpdateClientRequest updates a client
type UpdateClientRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	TaxID   string `json:"taxId"`
	Address string `json:"address"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
}

// ClientResponse is the API view of a client
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxId,omitempty"`
	Address   string    `json:"address,omitempty"`
	Country   string    `json:"country"`
	Currency  string    `json:"currency"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToClientResponse converts a client to its API view
func ToClientResponse(c *partner.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		Country:   c.Country,
		Currency:  c.Currency,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
