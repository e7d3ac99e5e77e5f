package response

import "cargo_cover/internal/domain/entities"

type ReferenceResponse struct {
	EntityType string            `json:"entity_type"`
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func FromReference(e entities.ReferenceEntity) ReferenceResponse {
	return ReferenceResponse{
		EntityType: string(e.Type),
		ID:         e.ID.String(),
		Name:       e.Name,
		Attributes: e.Attributes,
	}
}

type RefreshResponse struct {
	EntityType string `json:"entity_type"`
	Size       int    `json:"size"`
}

type SweepResponse struct {
	Expired int `json:"expired"`
}
