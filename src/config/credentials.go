package config

import (
	"os"
	"time"

	"market-gateway/src/helpers"
	"market-gateway/src/models"

	"github.com/pquerna/otp/totp"
)

// -----------------------------------------------------------------------------
// Broker Credentials (from environment)
// -----------------------------------------------------------------------------

// LoadCredentials reads the four broker secrets from the environment.
// All four must be present and the TOTP seed must produce a valid code;
// anything else is a configuration error and the caller should abort startup.
func LoadCredentials() (*models.MCredentials, error) {
	creds := &models.MCredentials{
		APIKey:   os.Getenv("API_KEY"),
		UserID:   os.Getenv("USER_ID"),
		PIN:      os.Getenv("MPIN"),
		TOTPSeed: os.Getenv("OTP_TOKEN"),
	}

	if creds.APIKey == "" || creds.UserID == "" || creds.PIN == "" || creds.TOTPSeed == "" {
		return nil, helpers.NewConfigurationError("missing required credentials in environment (API_KEY, USER_ID, MPIN, OTP_TOKEN)", nil)
	}

	// Eager check: a seed that cannot generate a code now will never work
	// at login time either.
	if _, err := totp.GenerateCode(creds.TOTPSeed, time.Now()); err != nil {
		return nil, helpers.NewConfigurationError("invalid OTP_TOKEN format", err)
	}

	return creds, nil
}
