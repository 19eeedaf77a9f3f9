package cli

import (
	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// resolveCredential returns the credential for write commands.
// An explicit --token wins over the stored auth.token setting, which wins
// over the wired default credential. With none of them the credential is
// zero and the services reject it.
func resolveCredential(flagToken string) domain.Credential {
	if flagToken != "" {
		return domain.Credential{Token: flagToken}
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Auth.Token != "" {
			return domain.Credential{Token: settings.Auth.Token}
		}
	}
	return defaultCredential
}
