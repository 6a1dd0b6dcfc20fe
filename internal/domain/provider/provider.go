package provider

type Provider struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	ProfessionID   *int64  `json:"profession_id,omitempty"`
	TypeProviderID *int64  `json:"type_provider_id,omitempty"`
	AddressID      *int64  `json:"address_id,omitempty"`
	Description    string  `json:"description,omitempty"`
	CategoryIDs    []int64 `json:"category_ids"`
	CityIDs        []int64 `json:"city_ids"`
}

// HasCategory reports whether the provider declares the given category.
func (p Provider) HasCategory(categoryID int64) bool {
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// ServesCity reports whether the city belongs to the provider's service area.
// A provider with no declared cities serves everywhere.
func (p Provider) ServesCity(cityID int64) bool {
	if len(p.CityIDs) == 0 {
		return true
	}
	for _, id := range p.CityIDs {
		if id == cityID {
			return true
		}
	}
	return false
}
