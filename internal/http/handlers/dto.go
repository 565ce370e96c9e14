package handlers

import "xav-address-service/internal/domain"

// addressRequest is the JSON form of the address form submission.
type addressRequest struct {
	Company      string `json:"company"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Country      string `json:"Country"`
	Urbanization string `json:"urbanization"`
}

func (r addressRequest) toModel() domain.RawAddressInput {
	return domain.RawAddressInput{
		Company:         r.Company,
		AddressLine1:    r.Address1,
		AddressLine2:    r.Address2,
		City:            r.City,
		StateOrProvince: r.State,
		PostalCode:      r.Zip,
		CountryCode:     r.Country,
		Urbanization:    r.Urbanization,
	}
}
