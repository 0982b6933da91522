package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadEnv reads a .env file and returns a map of key-value pairs.
// It ignores comments (starting with #) and empty lines.
func LoadEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	env := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove inline comments
		if idx := strings.Index(value, " #"); idx != -1 {
			value = strings.TrimSpace(value[:idx])
		}

		// Remove quotes if present
		if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'')) {
			value = value[1 : len(value)-1]
		}

		env[key] = value
	}

	return env, scanner.Err()
}

// ApplyEnvOverrides updates the configuration based on environment variables.
func ApplyEnvOverrides(cfg *Config, env map[string]string) {
	// Server
	if val, ok := env["SERVER_PORT"]; ok {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = port
		}
	}

	// Debate defaults
	if val, ok := env["ARBITER_AGENT"]; ok {
		cfg.Arbiter = val
	}
	if val, ok := env["MAX_OUTPUT_TOKENS"]; ok {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Defaults.MaxOutputTokens = n
		}
	}
	if val, ok := env["EXCERPT_LIMIT"]; ok {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Defaults.ExcerptLimit = n
		}
	}
	if val, ok := env["SINGLE_LINE_ANSWERS"]; ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Defaults.SingleLineAnswers = b
		}
	}

	// Per-provider overrides
	for name, providerCfg := range cfg.Providers {
		upper := strings.ToUpper(name)

		if val, ok := env[fmt.Sprintf("PROVIDER_%s_ENABLED", upper)]; ok {
			if boolVal, err := strconv.ParseBool(val); err == nil {
				providerCfg.Enabled = boolVal
			}
		}
		if val, ok := env[fmt.Sprintf("PROVIDER_%s_COMMAND", upper)]; ok {
			providerCfg.Command = val
		}
		if val, ok := env[fmt.Sprintf("PROVIDER_%s_FAILURE_MODE", upper)]; ok {
			providerCfg.FailureMode = val
		}
		if val, ok := env[fmt.Sprintf("PROVIDER_%s_MAX_OUTPUT_TOKENS", upper)]; ok {
			if n, err := strconv.Atoi(val); err == nil {
				providerCfg.MaxOutputTokens = n
			}
		}

		cfg.Providers[name] = providerCfg
	}
}
