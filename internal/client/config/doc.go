// Package config loads runtime configuration for the quotes CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml/.yml are read as YAML, anything else as JSON.
//  3. QUOTES_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the quotes API
//	-i int      session check interval (seconds)
//	-s string   path of the local store
//	-l string   log level
//
// # File schema
//
// Intervals use timex.Duration, so they can be strings like "30s" or integer
// nanoseconds:
//
//	api_base_url: http://localhost:5002/api
//	request_timeout: 10s
//	store_path: /home/me/.config/quotekeeper/quotekeeper.db
//	credential_secret: ""
//	session_check_interval: 30s
//	page_size: 10
//	log_level: info
//	log_backend: zap
//	strict_decode: false
//
// # Environment
//
//	QUOTES_API_URL, QUOTES_REQUEST_TIMEOUT, QUOTES_STORE_PATH,
//	QUOTES_CREDENTIAL_SECRET, QUOTES_SESSION_CHECK_INTERVAL, QUOTES_PAGE_SIZE,
//	QUOTES_LOG_LEVEL, QUOTES_LOG_BACKEND, QUOTES_STRICT_DECODE
package config
