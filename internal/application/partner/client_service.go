package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradedoc/backend/internal/domain/partner"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// ClientService handles client directory operations
type ClientService struct {
	clients   partner.ClientRepository
	publisher shared.TopicPublisher
}

// NewClientService creates a new ClientService
func NewClientService(clients partner.ClientRepository, publisher shared.TopicPublisher) *ClientService {
	if publisher == nil {
		publisher = shared.NoOpTopicPublisher{}
	}
	return &ClientService{clients: clients, publisher: publisher}
}

// Create creates a client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	exists, err := s.clients.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A client with this code already exists")
	}

	client, err := partner.NewClient(req.Code, req.Name, req.Country, req.Currency)
	if err != nil {
		return nil, err
	}
	if err := client.Update(req.Name, req.TaxID, req.Address, req.Email, req.Phone); err != nil {
		return nil, err
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicClients)
	return ToClientResponse(client), nil
}

// Update updates a client
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := client.Update(req.Name, req.TaxID, req.Address, req.Email, req.Phone); err != nil {
		return nil, err
	}

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicClients)
	return ToClientResponse(client), nil
}

// SetActive activates or deactivates a client
func (s *ClientService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ClientResponse, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		err = client.Activate()
	} else {
		err = client.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicClients)
	return ToClientResponse(client), nil
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToClientResponse(client), nil
}

// List returns clients with pagination
func (s *ClientService) List(ctx context.Context, filter shared.Filter) ([]*ClientResponse, int64, error) {
	clients, err := s.clients.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clients.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*ClientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, ToClientResponse(c))
	}
	return responses, total, nil
}
