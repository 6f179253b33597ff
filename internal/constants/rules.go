package constants

import (
	"github.com/kerimovok/go-pkg-utils/config"
	"github.com/kerimovok/go-pkg-utils/validator"
)

// EnvValidationRules covers everything the API server reads.
var EnvValidationRules = append(append([]validator.ValidationRule{}, serverValidationRules...), DatabaseValidationRules...)

var serverValidationRules = []validator.ValidationRule{
	{
		Variable: "PORT",
		Default:  "3000",
		Rule:     config.IsValidPort,
		Message:  "server port is required and must be a valid port number",
	},
	{
		Variable: "GO_ENV",
		Default:  "development",
		Rule:     func(v string) bool { return v == "development" || v == "production" },
		Message:  "GO_ENV must be either 'development' or 'production'",
	},
	{
		Variable: "CONFIG_PATH",
		Default:  "config/attachments.yaml",
		Rule:     func(v string) bool { return v != "" },
		Message:  "attachment config path is required",
	},

	// Auth validation
	{
		Variable: "JWT_SECRET",
		Rule:     func(v string) bool { return len(v) >= 16 },
		Message:  "JWT secret is required and must be at least 16 characters",
	},
}

// DatabaseValidationRules is the subset needed by offline jobs.
var DatabaseValidationRules = []validator.ValidationRule{
	{
		Variable: "DB_HOST",
		Rule:     func(v string) bool { return v != "" },
		Message:  "database host is required",
	},
	{
		Variable: "DB_PORT",
		Default:  "5432",
		Rule:     config.IsValidPort,
		Message:  "database port is required and must be a valid port number",
	},
	{
		Variable: "DB_USER",
		Rule:     func(v string) bool { return v != "" },
		Message:  "database user is required",
	},
	{
		Variable: "DB_NAME",
		Default:  "station",
		Rule:     func(v string) bool { return v != "" },
		Message:  "database name is required",
	},
}
