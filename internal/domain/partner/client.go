package partner

import (
	"strings"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// ClientStatus represents the status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// Client is a trading partner that receives delivery notes and invoices
type Client struct {
	shared.BaseEntity
	Code     string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_clients_code"`
	Name     string       `gorm:"type:varchar(200);not null"`
	TaxID    string       `gorm:"type:varchar(50)"`
	Address  string       `gorm:"type:text"`
	Country  string       `gorm:"type:varchar(2);not null"`
	Currency string       `gorm:"type:varchar(3);not null"`
	Email    string       `gorm:"type:varchar(200)"`
	Phone    string       `gorm:"type:varchar(50)"`
	Status   ClientStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates an active client
func NewClient(code, name, country, currency string) (*Client, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Client code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Client code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(country) != 2 {
		return nil, shared.NewDomainError("INVALID_COUNTRY", "Country must be a two-letter ISO code")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a three-letter ISO code")
	}

	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		Code:       strings.ToUpper(code),
		Name:       name,
		Country:    strings.ToUpper(country),
		Currency:   strings.ToUpper(currency),
		Status:     ClientStatusActive,
	}, nil
}

// Update updates the client's details
func (c *Client) Update(name, taxID, address, email, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}

	c.Name = name
	c.TaxID = taxID
	c.Address = address
	c.Email = email
	c.Phone = phone
	c.Touch()
	return nil
}

// Activate activates the client
func (c *Client) Activate() error {
	if c.Status == ClientStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Client is already active")
	}

	c.Status = ClientStatusActive
	c.Touch()
	return nil
}

// Deactivate deactivates the client
func (c *Client) Deactivate() error {
	if c.Status == ClientStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Client is already inactive")
	}

	c.Status = ClientStatusInactive
	c.Touch()
	return nil
}

// IsActive returns true if the client is active
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}
