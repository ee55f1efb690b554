package seeder

import "jobboard/internal/config"

func Defaults(cfg config.SeedConfig) []Seeder {
	return []Seeder{
		ReferenceSeeder{},
		AdminSeeder{Email: cfg.AdminEmail, Password: cfg.AdminPassword, FullName: cfg.AdminName},
	}
}
