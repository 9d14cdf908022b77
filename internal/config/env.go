package config

import (
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of environment variables that override options.
const EnvPrefix = "SCRIBE_"

// FromEnv collects option overrides from environ, a list of KEY=value
// pairs as returned by os.Environ. SCRIBE_MAX_HISTORY=50 becomes
// {"maxHistory": 50}. Unknown names are kept so Decode can reject them.
func FromEnv(environ []string) map[string]any {
	raw := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := envToKey(strings.TrimPrefix(name, EnvPrefix))
		if key == "" {
			continue
		}
		raw[key] = parseEnvValue(value)
	}
	return raw
}

// envToKey converts ALLOW_BLOCK_ELEMENTS to allowBlockElements.
func envToKey(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		if b.Len() > 0 {
			part = strings.ToUpper(part[:1]) + part[1:]
		}
		b.WriteString(part)
	}
	return b.String()
}

// parseEnvValue converts s to a bool or int when it reads as one.
// "1" and "0" stay integers.
func parseEnvValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return s
}
