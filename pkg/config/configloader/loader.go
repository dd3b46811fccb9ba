// Package configloader builds typed service configuration from a yaml file, a .env file and the environment.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

type Validator interface {
	Validate() error
}

// Load reads the configuration of the named service. Sources are applied in order of increasing priority:
//  1. yaml file (config.yaml, or the path in <SERVICE>_CONFIG_FILE)
//  2. .env file in the working directory
//  3. process environment
//
// Environment keys are expected as <SERVICE>_<SECTION>_<KEY>, e.g. PRODUCT_DATABASE_URL -> database.url.
func Load[T Validator](serviceName string) (T, error) {
	var cfg T
	k := koanf.New(".")

	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))
	configFile := defaultConfigFile
	if path := os.Getenv(envPrefix + "CONFIG_FILE"); path != "" {
		configFile = path
	}

	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
	}

	toKey := keyTransformer(envPrefix)
	if envFileMap, err := godotenv.Read(defaultEnvFile); err == nil {
		envMap := make(map[string]any, len(envFileMap))
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				continue
			}
			envMap[toKey(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", toKey), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// keyTransformer maps PRODUCT_DATABASE_URL to database.url for the PRODUCT_ prefix.
func keyTransformer(envPrefix string) func(string) string {
	lowerPrefix := strings.ToLower(envPrefix)
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, lowerPrefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}
