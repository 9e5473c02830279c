package claim

import (
	"claimtable/backend/internal/pkg/config"
	"claimtable/backend/internal/service/claim"
)

type Claims interface {
	Settings() config.Settings
	GenerateWith(settings config.Settings, timecard, masterlist claim.Source) claim.Result
}
