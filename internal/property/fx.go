package property

import (
	"github.com/brokerbase/polisdesk/internal/property/service"
	"go.uber.org/fx"
)

var Module = fx.Module("property.service",
	fx.Provide(service.NewService),
)
