package recipebox

import "errors"

// Error variables for configuration and the collaborators around the store.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDBPathEmpty        = errors.New("db_path cannot be empty")
	ErrTimeoutInvalid     = errors.New("request_timeout_ms must be positive")
	ErrLogLevelInvalid    = errors.New("invalid log_level")
	ErrLogFormatInvalid   = errors.New("log_format must be console or json")

	ErrSearchModeRequired = errors.New("search needs --title, --ingredients, or both")
	ErrSearchTimeout      = errors.New("search timed out")

	ErrInvalidRecipe     = errors.New("invalid recipe")
	ErrInvalidIngredient = errors.New("invalid ingredient")
	ErrInvalidBatch      = errors.New("invalid recipe batch")
	ErrInvalidAccount    = errors.New("invalid account")

	ErrAccountCreationDisabled = errors.New("account creation is disabled (set allow_account_creation)")
	ErrUserExists              = errors.New("user already exists")
	ErrInvalidCredentials      = errors.New("invalid username or password")
)
