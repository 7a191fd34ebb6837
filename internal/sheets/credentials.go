package sheets

import (
	"errors"
	"os"

	dErrors "github.com/pauloqxm/adatualiza/pkg/domain-errors"
)

// ErrNoCredentials is returned when every credential source comes up empty.
var ErrNoCredentials = errors.New("no service-account credentials found")

// localCredentialsFile is the development fallback next to the binary.
const localCredentialsFile = "service_account.json"

// envCredentialsPath names the file-path environment variable tried last.
const envCredentialsPath = "GOOGLE_APPLICATION_CREDENTIALS"

// ResolveCredentials returns the service-account JSON, trying sources in a
// fixed order: the injected secret (config), a local service_account.json,
// then the path in GOOGLE_APPLICATION_CREDENTIALS. First hit wins; all three
// absent is a hard authentication failure, fatal for the session.
func ResolveCredentials(injected string) ([]byte, error) {
	if injected != "" {
		return []byte(injected), nil
	}

	if data, err := os.ReadFile(localCredentialsFile); err == nil {
		return data, nil
	}

	if path := os.Getenv(envCredentialsPath); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}

	return nil, dErrors.Wrap(ErrNoCredentials, dErrors.CodeUnauthenticated,
		"configure the service-account credential")
}
