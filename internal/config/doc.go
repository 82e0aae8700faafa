// Package config provides 12-factor configuration management for previewd.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Sandbox: workspace location and toolchain commands
//   - Resolver: CDN dependency-resolution settings
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - SANDBOX_DIR, INSTALL_CMD, DEV_CMD, SHELL_CMD
//   - RESOLVER_ENABLED, RESOLVER_URL, RESOLVER_TIMEOUT
//   - LOG_LEVEL, LOG_DEV
package config
