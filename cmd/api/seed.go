package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"go-retail-pos/internal/cache"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// seedDefaults creates privileges, roles, the bootstrap admin account and
// the default settings rows when they are missing.
func seedDefaults(db *gorm.DB, log *logrus.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)
	settingRepo := repository.NewSettingRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Warn("seed privileges: ", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Warn("seed roles: ", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets every privilege.
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(adminRole).Association("Privileges").Replace(allPrivileges)
	}

	// CASHIER gets the point-of-sale subset.
	cashierCodes := map[string]bool{
		"product:view":   true,
		"sale:view":      true,
		"sale:create":    true,
		"dashboard:view": true,
	}
	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err == nil && len(cashierRole.Privileges) == 0 {
		var subset []model.Privilege
		for _, p := range allPrivileges {
			if cashierCodes[p.Code] {
				subset = append(subset, p)
			}
		}
		db.Model(cashierRole).Association("Privileges").Replace(subset)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(adminEmail); err != nil {
		seedAdmin(userRepo, roleRepo, adminEmail, log)
	}

	defaults := map[string]string{
		model.SettingVATRate:           "0",
		model.SettingLowStockThreshold: "10",
		model.SettingExpiryAlertDays:   "30",
	}
	for key, value := range defaults {
		if _, err := settingRepo.Get(key); err != nil {
			if err := settingRepo.Upsert(key, value); err != nil {
				log.Warn("seed setting ", key, ": ", err)
			}
		}
	}
}

func seedAdmin(userRepo repository.UserRepository, roleRepo repository.RoleRepository, adminEmail string, log *logrus.Logger) {
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		log.Warn("admin role missing, skipping admin seed: ", err)
		return
	}

	admin := &model.User{
		Email:      adminEmail,
		FullName:   "Administrator",
		IsActive:   true,
		Privileges: adminRole.Privileges,
		RoleID:     &adminRole.ID,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	if err := admin.SetPassword(password); err != nil {
		log.Warn("hash admin password: ", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Warn("create admin user: ", err)
	} else {
		log.Info("admin user created: ", adminEmail)
	}
}

// buildSummaryCache returns the redis-backed dashboard cache when
// REDIS_ADDR is configured and reachable, otherwise a noop.
func buildSummaryCache(log *logrus.Logger) cache.SummaryCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return cache.NoopSummaryCache{}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	c := cache.NewRedisSummaryCache(addr, os.Getenv("REDIS_PASSWORD"), redisDB)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		log.Warn("redis unreachable, dashboard cache disabled: ", err)
		c.Close()
		return cache.NoopSummaryCache{}
	}

	log.Info("dashboard cache enabled: ", addr)
	return c
}
