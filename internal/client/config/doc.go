// Package config loads runtime configuration for the SchoolConnect client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file and SCHOOLCONNECT_* environment variables (see parseEnv).
//     Variables already set in the environment win over the .env file.
//  3. Optional JSON or YAML file selected with -c or -config (see parseFile).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the identity service
//	-d string   path of the local session database
//	-t duration request timeout, e.g. 10s
//	-l string   log level (debug, info, warn, error)
//
// # Environment
//
//	SCHOOLCONNECT_API_BASE_URL
//	SCHOOLCONNECT_STORE_PATH
//	SCHOOLCONNECT_REQUEST_TIMEOUT
//	SCHOOLCONNECT_LOG_LEVEL
//	SCHOOLCONNECT_LOG_FORMAT
//	SCHOOLCONNECT_SERVICE_NAME
//
// # File schema
//
// Durations are either strings like "10s" or integer nanoseconds. The file
// format follows the extension: .yaml/.yml is YAML, anything else JSON.
//
//	{
//	  "api_base_url": "https://id.example.org/api",
//	  "store_path": "schoolconnect.db",
//	  "request_timeout": "10s",
//	  "log_level": "warn",
//	  "log_format": "text",
//	  "service_name": "schoolconnect-client"
//	}
package config
