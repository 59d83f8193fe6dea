package db

import (
	"gorm.io/gorm" // GORM ORM library

	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// defaultPackages is the catalog seeded into a fresh record store
var defaultPackages = []domain.Package{
	{
		Name:        "Harian Hemat",
		Description: "Paket internet harian untuk kebutuhan ringan",
		Price:       5000,
		Quota:       "1GB",
		Validity:    "1 hari",
		Category:    domain.CategoryDaily,
		Features:    []string{"Kuota 1GB", "Aktif 24 jam", "Jaringan 4G"},
	},
	{
		Name:        "Harian Plus",
		Description: "Paket harian dengan kuota besar untuk streaming",
		Price:       10000,
		Quota:       "3GB",
		Validity:    "1 hari",
		Category:    domain.CategoryDaily,
		Features:    []string{"Kuota 3GB", "Aktif 24 jam", "Bebas streaming musik"},
	},
	{
		Name:        "Mingguan 5GB",
		Description: "Paket mingguan untuk pemakaian sehari-hari",
		Price:       25000,
		Quota:       "5GB",
		Validity:    "7 hari",
		Category:    domain.CategoryWeekly,
		Features:    []string{"Kuota 5GB", "Aktif 7 hari", "Jaringan 4G/5G"},
	},
	{
		Name:        "Mingguan Super",
		Description: "Kuota besar untuk seminggu penuh",
		Price:       50000,
		Quota:       "15GB",
		Validity:    "7 hari",
		Category:    domain.CategoryWeekly,
		Features:    []string{"Kuota 15GB", "Aktif 7 hari", "Bonus kuota malam 5GB"},
	},
	{
		Name:        "Bulanan Reguler",
		Description: "Paket bulanan untuk pengguna aktif",
		Price:       75000,
		Quota:       "25GB",
		Validity:    "30 hari",
		Category:    domain.CategoryMonthly,
		Features:    []string{"Kuota 25GB", "Aktif 30 hari", "Gratis telepon 100 menit"},
	},
	{
		Name:        "Bulanan Unlimited",
		Description: "Internet tanpa batas sebulan penuh",
		Price:       150000,
		Quota:       "Unlimited",
		Validity:    "30 hari",
		Category:    domain.CategoryMonthly,
		Features:    []string{"Kuota tanpa batas", "Aktif 30 hari", "Prioritas jaringan", "Gratis telepon sepuasnya"},
	},
}

// SeedPackages inserts the default catalog into an empty packages table
func SeedPackages(db *gorm.DB) error {
	var count int64 // Existing package count
	if err := db.Model(&domain.Package{}).Count(&count).Error; err != nil {
		return err // Return error if counting fails
	}
	if count > 0 {
		return nil // Catalog already seeded
	}
	packages := make([]domain.Package, len(defaultPackages))
	copy(packages, defaultPackages) // Copy so reruns start from clean records
	return db.Create(&packages).Error // Insert the default catalog
}
