package config

import (
	"log"

	"consultease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// seedSchemes seeds the government scheme master data
func (s *Seeder) seedSchemes() error {
	schemes := []models.Scheme{
		{
			Code:        "PMEGP",
			Name:        "Prime Minister's Employment Generation Programme",
			Description: "Credit-linked subsidy for setting up new micro enterprises",
			Ministry:    "Ministry of MSME",
			IsActive:    true,
		},
		{
			Code:        "CGTMSE",
			Name:        "Credit Guarantee Fund Trust for Micro and Small Enterprises",
			Description: "Collateral-free credit guarantee cover for micro and small enterprises",
			Ministry:    "Ministry of MSME",
			IsActive:    true,
		},
		{
			Code:        "MUDRA",
			Name:        "Pradhan Mantri MUDRA Yojana",
			Description: "Loans up to 10 lakh for non-corporate, non-farm small enterprises",
			Ministry:    "Ministry of Finance",
			IsActive:    true,
		},
		{
			Code:        "SISFS",
			Name:        "Startup India Seed Fund Scheme",
			Description: "Seed funding for proof of concept, prototype and market entry",
			Ministry:    "DPIIT",
			IsActive:    true,
		},
		{
			Code:        "SFURTI",
			Name:        "Scheme of Fund for Regeneration of Traditional Industries",
			Description: "Cluster development support for traditional industries and artisans",
			Ministry:    "Ministry of MSME",
			IsActive:    true,
		},
	}

	for _, sc := range schemes {
		var existing models.Scheme
		if err := s.db.Where("code = ?", sc.Code).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&sc).Error; err != nil {
					return err
				}
				log.Printf("   Created scheme: %s", sc.Code)
			}
		}
	}
	return nil
}
