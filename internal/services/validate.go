package services

import "github.com/CapitalOne-RedFlags/GreenFlagML/internal/models"

func validateRequest(req interface{}) error {
	return models.ValidateStruct(req)
}
