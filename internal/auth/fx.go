package auth

import (
	"github.com/brokerbase/polisdesk/internal/auth/domain"
	"github.com/brokerbase/polisdesk/internal/auth/repository"
	"github.com/brokerbase/polisdesk/internal/auth/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Invoke(migrate),
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{})
}
